package market

import (
	"context"
	"errors"

	"github.com/samasastudio/sq-gendash/internal/dto"
	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/models"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

type alphaClient interface {
	Configured() bool
	Query(ctx context.Context, q dto.AlphaQuery) (dto.AlphaResponse, error)
}

type Client struct {
	alpha alphaClient
}

func NewClient(alpha alphaClient) *Client {
	return &Client{alpha: alpha}
}

// Fetch loads one dataset. Every failure is reported on the returned result
// so that one dataset never fails its siblings.
func (c *Client) Fetch(ctx context.Context, ds models.Dataset) models.DatasetResult {
	log, ctx := logger.With(ctx, "dataset_id", ds.ID, "symbol", ds.Symbol)
	out := models.DatasetResult{DatasetID: ds.ID, Meta: models.DatasetMeta{Symbol: ds.Symbol}}

	if ds.Source != "" && ds.Source != models.SourceAlphaVantage {
		return failed(out, "unsupported dataset source", ds.Source)
	}
	if !c.alpha.Configured() {
		return failed(out, "market data provider is not configured", "missing_api_key")
	}

	resp, err := c.alpha.Query(ctx, dto.AlphaQuery{
		Function:   ds.Function,
		Symbol:     ds.Symbol,
		OutputSize: OutputSize(ds),
	})
	if err != nil {
		log.Warn("dataset fetch failed", "error", err)
		var extErr *errs.ExternalServiceError
		if errors.As(err, &extErr) && extErr.Transient {
			return failed(out, extErr.Error(), "transient")
		}
		return failed(out, err.Error(), "")
	}
	if resp.Failed() {
		out = failed(out, resp.Message, resp.Code)
		out.Note = resp.Message
		return out
	}

	rows, meta, err := Transform(ds, resp.Payload)
	if err != nil {
		log.Warn("dataset transform failed", "error", err)
		out.Meta = meta
		return failed(out, err.Error(), "")
	}

	out.Status = models.DatasetStatusSuccess
	out.Cached = resp.Cached
	out.Meta = meta
	out.Rows = rows
	if resp.Cached {
		out.Note = "served from cache"
	}
	return out
}

func failed(out models.DatasetResult, message, detail string) models.DatasetResult {
	out.Status = models.DatasetStatusError
	out.Message = message
	out.Detail = detail
	out.Rows = []models.Row{}
	return out
}
