package catalog

import (
	"context"
	"errors"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service is the read path the cart pricing code uses: cache first, then the
// repository, with singleflight collapsing concurrent misses for the same
// product (a guest summary fetches one product per distinct line).
type Service struct {
	repo   RepoInterface
	cache  ProductCache
	logger *zap.Logger
	sfg    singleflight.Group
}

func NewService(repo RepoInterface, cache ProductCache, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(productID, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, productID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("product cache get failed", zap.String("product_id", productID), zap.Error(err))
		}

		product, errGet := s.repo.GetProduct(ctx, productID)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), product); errSet != nil {
				s.logger.Warn("product cache set failed", zap.String("product_id", productID), zap.Error(errSet))
			}
		}()

		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// GetProducts resolves the distinct product IDs of a cart into a lookup map.
// IDs the catalog does not know are simply absent from the result; the caller
// decides how to surface that.
func (s *Service) GetProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(productIDs))
	for _, id := range productIDs {
		if _, seen := out[id]; seen {
			continue
		}
		p, err := s.GetProduct(ctx, id)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = *p
	}
	return out, nil
}
