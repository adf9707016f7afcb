package llm

import (
	"context"
	"time"

	"github.com/nutriscan-ai/supplement-platform/internal/model"
	"github.com/nutriscan-ai/supplement-platform/pkg/metrics"
)

// Instrument wraps a client so every boundary call is recorded in the
// Prometheus metrics, labeled by operation and outcome.
func Instrument(c Client) Client {
	return &instrumentedClient{inner: c}
}

type instrumentedClient struct {
	inner Client
}

func (c *instrumentedClient) Name() string {
	return c.inner.Name()
}

func (c *instrumentedClient) AnalyzeImage(ctx context.Context, img Image) (*model.ProductReview, error) {
	start := time.Now()
	review, err := c.inner.AnalyzeImage(ctx, img)
	metrics.RecordBoundaryCall("analyze", status(err), time.Since(start).Seconds())
	return review, err
}

func (c *instrumentedClient) SearchProducts(ctx context.Context, query string) ([]model.ProductReview, error) {
	start := time.Now()
	reviews, err := c.inner.SearchProducts(ctx, query)
	metrics.RecordBoundaryCall("search", status(err), time.Since(start).Seconds())
	return reviews, err
}

func (c *instrumentedClient) Converse(ctx context.Context, history []model.ConversationTurn, message string) (string, error) {
	start := time.Now()
	text, err := c.inner.Converse(ctx, history, message)
	metrics.RecordBoundaryCall("converse", status(err), time.Since(start).Seconds())
	return text, err
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
