package api

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/miradorstack/spacex-dash/internal/models"
	"github.com/miradorstack/spacex-dash/internal/utils"
)

// Dashboard is the view controller the gRPC service reads from.
type Dashboard interface {
	Summary() models.DatasetSummary
	DropdownOptions() []models.DropdownOption
	Slider() models.SliderSpec
	PieChartData(sel models.Selection) models.PieChart
	ScatterChartData(sel models.Selection) models.ScatterChart
}

// DashboardHandler implements DashboardServer over a Dashboard.
type DashboardHandler struct {
	logger *slog.Logger
	svc    Dashboard
}

// NewDashboardHandler constructs the gRPC facade.
func NewDashboardHandler(logger *slog.Logger, svc Dashboard) *DashboardHandler {
	return &DashboardHandler{logger: utils.Component(logger, "grpc"), svc: svc}
}

// Summary implements DashboardServer.
func (h *DashboardHandler) Summary(ctx context.Context, _ *SummaryRequest) (*SummaryResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	return &SummaryResponse{
		Summary: h.svc.Summary(),
		Options: h.svc.DropdownOptions(),
		Slider:  h.svc.Slider(),
	}, nil
}

// PieChart implements DashboardServer.
func (h *DashboardHandler) PieChart(ctx context.Context, req *ChartRequest) (*models.PieChart, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	sel, err := SelectionFromRequest(req, h.svc.Summary())
	if err != nil {
		h.logger.Debug("rejected pie request", slog.Any("error", err))
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	chart := h.svc.PieChartData(sel)
	return &chart, nil
}

// ScatterChart implements DashboardServer.
func (h *DashboardHandler) ScatterChart(ctx context.Context, req *ChartRequest) (*models.ScatterChart, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	sel, err := SelectionFromRequest(req, h.svc.Summary())
	if err != nil {
		h.logger.Debug("rejected scatter request", slog.Any("error", err))
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	chart := h.svc.ScatterChartData(sel)
	return &chart, nil
}

// SelectionFromRequest maps a ChartRequest into a domain Selection.
func SelectionFromRequest(req *ChartRequest, summary models.DatasetSummary) (models.Selection, error) {
	if req == nil {
		return models.Selection{}, fmt.Errorf("request is nil")
	}
	sel := models.Selection{Site: strings.TrimSpace(req.Site), Payload: summary.FullRange()}
	if req.Low != nil {
		if !finite(*req.Low) {
			return models.Selection{}, fmt.Errorf("low must be a finite number")
		}
		sel.Payload.Low = *req.Low
	}
	if req.High != nil {
		if !finite(*req.High) {
			return models.Selection{}, fmt.Errorf("high must be a finite number")
		}
		sel.Payload.High = *req.High
	}
	sel.Site = sel.NormalizedSite()
	return sel, nil
}

// ToChartRequest is the client-side inverse of SelectionFromRequest.
func ToChartRequest(sel models.Selection) *ChartRequest {
	low, high := sel.Payload.Low, sel.Payload.High
	return &ChartRequest{Site: sel.Site, Low: &low, High: &high}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
