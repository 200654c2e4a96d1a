// Package smartfill turns a pasted WhatsApp message into new-order draft
// fields, using an extraction oracle and the record store to resolve
// customers and products.
package smartfill

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/xelth-com/zapstock/internal/customers"
	"github.com/xelth-com/zapstock/internal/inventory"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/metrics"
	"github.com/xelth-com/zapstock/internal/models"
	"github.com/xelth-com/zapstock/internal/store"
)

const (
	MsgNotUnderstood = "Não foi possível entender o pedido. Tente preencher manualmente."
	MsgOracleFailed  = "Erro ao processar com IA."
)

// ErrExtractionFailed matches every *ExtractionError
var ErrExtractionFailed = errors.New("extraction failed")

// ExtractionError means the draft was left exactly as it was. Message is
// safe to show to the operator.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return "extraction failed: " + e.Cause.Error()
	}
	return "extraction failed: " + e.Message
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtractionFailed }

// Oracle extracts order hints from free text. A nil result with a nil
// error means nothing could be extracted.
type Oracle interface {
	Extract(ctx context.Context, message string) (*models.OrderHints, error)
}

// Result is the outcome of a successful Apply
type Result struct {
	Draft           models.Draft       `json:"draft"`
	Hints           *models.OrderHints `json:"hints,omitempty"`
	CreatedCustomer *models.Customer   `json:"createdCustomer,omitempty"`
}

// Adapter reconciles oracle output against existing records
type Adapter struct {
	oracle    Oracle
	store     *store.Store
	directory *customers.Directory
	timeout   time.Duration
}

// NewAdapter creates an adapter. A zero timeout means no limit beyond ctx.
func NewAdapter(oracle Oracle, s *store.Store, dir *customers.Directory, timeout time.Duration) *Adapter {
	return &Adapter{oracle: oracle, store: s, directory: dir, timeout: timeout}
}

// Apply fills draft from message. A blank message returns the draft
// unchanged without calling the oracle. On any failure the returned error
// is an *ExtractionError and draft must be kept as it was.
//
// Reconciliation, in order:
//   - a customer whose name contains the extracted name is selected;
//   - otherwise a name plus phone creates a customer;
//   - the first active lot whose name contains the keywords is selected;
//   - a positive quantity is adopted;
//   - an address with no customer selected above goes into the notes.
func (a *Adapter) Apply(ctx context.Context, draft models.Draft, message string) (*Result, error) {
	if strings.TrimSpace(message) == "" {
		metrics.RecordSmartFill("skipped")
		return &Result{Draft: draft}, nil
	}

	log := logger.FromContext(ctx)

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	hints, err := a.oracle.Extract(callCtx, message)
	if err != nil {
		metrics.RecordSmartFill("error")
		log.Error().Err(err).Msg("Extraction oracle failed")
		return nil, &ExtractionError{Message: MsgOracleFailed, Cause: err}
	}
	if hints == nil {
		metrics.RecordSmartFill("not_understood")
		return nil, &ExtractionError{Message: MsgNotUnderstood}
	}

	res := &Result{Draft: draft, Hints: hints}
	name := value(hints.CustomerName)
	phone := value(hints.CustomerPhone)
	address := value(hints.CustomerAddress)

	matchedCustomer := ""
	if name != "" {
		if c, ok := a.directory.Find(name); ok {
			matchedCustomer = c.ID
		}
	}

	if matchedCustomer == "" && name != "" && phone != "" {
		addr := address
		if addr == "" {
			addr = customers.PendingAddress
		}
		c, err := a.directory.Create(ctx, customers.NewCustomer{Name: name, WhatsApp: phone, Address: addr})
		if err != nil {
			metrics.RecordSmartFill("error")
			return nil, &ExtractionError{Message: MsgOracleFailed, Cause: err}
		}
		matchedCustomer = c.ID
		res.CreatedCustomer = c
	}

	if matchedCustomer != "" {
		res.Draft.CustomerID = matchedCustomer
	}

	if kw := value(hints.ProductKeywords); kw != "" {
		if p, ok := inventory.MatchActive(a.store.Products(), kw); ok {
			res.Draft.ProductID = p.ID
		}
	}

	if hints.Quantity != nil && *hints.Quantity > 0 {
		q := int(math.Round(*hints.Quantity))
		if q < 1 {
			q = 1
		}
		res.Draft.Quantity = q
	}

	if address != "" && matchedCustomer == "" {
		res.Draft.Notes = "Endereço extraído: " + address
	}

	metrics.RecordSmartFill("filled")
	log.Info().
		Str("draft_id", draft.ID).
		Str("customer_id", res.Draft.CustomerID).
		Str("product_id", res.Draft.ProductID).
		Int("quantity", res.Draft.Quantity).
		Bool("customer_created", res.CreatedCustomer != nil).
		Msg("Draft smart-filled")
	return res, nil
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
