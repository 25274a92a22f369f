package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/volumate/volumate/internal/domain"
)

// ErrNoScore rejects a save attempt for a product without a usable score.
// A precondition violation, not a retryable failure.
var ErrNoScore = errors.New("product has no score")

// genericDisplayMessage is the single user-facing message for every
// failed resolution. The internal error kind is kept on the Resolution
// for logging only.
const genericDisplayMessage = "Could not resolve product. Please try again."

// Save-only defaults for optional display fields. Applied when building
// the persisted row, never to a live resolution.
const (
	defaultRating      = "No rating available"
	defaultRatingColor = "#9E9E9E"
)

// State of a single resolution attempt.
type State string

const (
	StatePending  State = "pending"
	StateResolved State = "resolved"
	StateFailed   State = "failed"
	StateSaved    State = "saved"
)

// Resolution is the unified view of one resolve attempt, owned by the
// caller. The AlreadySaved flag and the saved/unsaved state live here
// rather than in shared screen state, so concurrent resolutions cannot
// race on them.
type Resolution struct {
	Barcode      string                `json:"barcode"`
	State        State                 `json:"state"`
	Product      *domain.RemoteProduct `json:"product,omitempty"`
	AlreadySaved bool                  `json:"alreadySaved"`
	DisplayError string                `json:"displayError,omitempty"`

	err error
}

// Err returns the internal error kind for a failed resolution, for
// diagnostics only; display code must use DisplayError.
func (r *Resolution) Err() error { return r.err }

// productRepository is the subset of store.ProductStore that Resolver
// requires.
type productRepository interface {
	Upsert(ctx context.Context, product *domain.SavedProduct) error
	GetByBarcode(ctx context.Context, barcode string) (*domain.SavedProduct, error)
	GetAll(ctx context.Context) ([]*domain.SavedProduct, error)
	DeleteByBarcode(ctx context.Context, barcode string) error
}

// productFetcher is the subset of foodapi.Client that Resolver requires.
type productFetcher interface {
	FetchByBarcode(ctx context.Context, barcode string) (*domain.RemoteProduct, error)
}

// Resolver turns a barcode into a Resolution and mediates the optional
// save action.
type Resolver struct {
	store  productRepository
	remote productFetcher
	logger *slog.Logger
}

func NewResolver(store productRepository, remote productFetcher, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		remote: remote,
		logger: logger,
	}
}

// Resolve looks up barcode locally (informational only) and remotely
// (authoritative). The local pre-check is best-effort: if it fails the
// resolution proceeds as though the product were not saved. The network
// call is always made, so a saved product still shows current data.
func (r *Resolver) Resolve(ctx context.Context, barcode string) *Resolution {
	res := &Resolution{Barcode: barcode, State: StatePending}

	existing, err := r.store.GetByBarcode(ctx, barcode)
	if err != nil {
		r.logger.Warn("saved-product pre-check failed, continuing as unsaved", "barcode", barcode, "error", err)
	}
	res.AlreadySaved = err == nil && existing != nil

	product, err := r.remote.FetchByBarcode(ctx, barcode)
	if err != nil {
		r.logger.Error("resolution failed", "barcode", barcode, "error", err)
		res.State = StateFailed
		res.DisplayError = genericDisplayMessage
		res.err = err
		return res
	}

	r.logger.Info("resolved product", "barcode", barcode, "name", product.DisplayName, "already_saved", res.AlreadySaved)
	res.State = StateResolved
	res.Product = product
	return res
}

// Save persists the resolution's product. Requires a resolved attempt
// with a present score; absence of a score means "could not be computed"
// and is never written as zero. Saving an already-saved resolution is a
// no-op. On storage failure the resolution stays resolved so the caller
// may retry.
func (r *Resolver) Save(ctx context.Context, res *Resolution) error {
	if res.State == StateSaved {
		return nil
	}
	if res.State != StateResolved || res.Product == nil {
		return fmt.Errorf("cannot save resolution in state %q", res.State)
	}
	if res.Product.Score == nil {
		return fmt.Errorf("%w: barcode %s", ErrNoScore, res.Barcode)
	}

	saved := buildSavedProduct(res.Barcode, res.Product)
	if err := r.store.Upsert(ctx, saved); err != nil {
		r.logger.Error("save failed", "barcode", res.Barcode, "error", err)
		return err
	}

	r.logger.Info("saved product", "barcode", res.Barcode, "score", saved.Score)
	res.State = StateSaved
	res.AlreadySaved = true
	return nil
}

// ListSaved returns every locally saved product.
func (r *Resolver) ListSaved(ctx context.Context) ([]*domain.SavedProduct, error) {
	return r.store.GetAll(ctx)
}

// DeleteSaved removes a saved product; deleting an absent barcode is a
// no-op.
func (r *Resolver) DeleteSaved(ctx context.Context, barcode string) error {
	return r.store.DeleteByBarcode(ctx, barcode)
}

func buildSavedProduct(barcode string, product *domain.RemoteProduct) *domain.SavedProduct {
	saved := &domain.SavedProduct{
		Barcode:     barcode,
		Name:        product.DisplayName,
		Score:       *product.Score,
		Rating:      product.Rating,
		RatingColor: product.RatingColor,
	}
	if product.ImageURL != "" {
		url := product.ImageURL
		saved.ImageURL = &url
	}
	if saved.Rating == "" {
		saved.Rating = defaultRating
	}
	if saved.RatingColor == "" {
		saved.RatingColor = defaultRatingColor
	}
	return saved
}
