package api

import (
	"context"

	"google.golang.org/grpc"

	"github.com/miradorstack/spacex-dash/internal/models"
)

// Fully-qualified gRPC names of the Dashboard service.
const (
	ServiceName            = "spacexdash.v1.Dashboard"
	methodSummary          = "/" + ServiceName + "/Summary"
	methodPieChart         = "/" + ServiceName + "/PieChart"
	methodScatterChart     = "/" + ServiceName + "/ScatterChart"
	dashboardServiceSource = "spacexdash/v1/dashboard.proto"
)

// SummaryRequest asks for the dataset summary and the control specs.
type SummaryRequest struct{}

// SummaryResponse mirrors what the page needs to build its controls.
type SummaryResponse struct {
	Summary models.DatasetSummary   `json:"summary"`
	Options []models.DropdownOption `json:"options"`
	Slider  models.SliderSpec       `json:"slider"`
}

// ChartRequest selects a site and payload range. Nil bounds default to the
// dataset's payload bounds.
type ChartRequest struct {
	Site string   `json:"site"`
	Low  *float64 `json:"low,omitempty"`
	High *float64 `json:"high,omitempty"`
}

// DashboardServer is the server API for the Dashboard service.
type DashboardServer interface {
	Summary(context.Context, *SummaryRequest) (*SummaryResponse, error)
	PieChart(context.Context, *ChartRequest) (*models.PieChart, error)
	ScatterChart(context.Context, *ChartRequest) (*models.ScatterChart, error)
}

// RegisterDashboardServer attaches srv to s.
func RegisterDashboardServer(s grpc.ServiceRegistrar, srv DashboardServer) {
	s.RegisterService(&dashboardServiceDesc, srv)
}

var dashboardServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Summary", Handler: summaryHandler},
		{MethodName: "PieChart", Handler: pieChartHandler},
		{MethodName: "ScatterChart", Handler: scatterChartHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: dashboardServiceSource,
}

func summaryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SummaryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).Summary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodSummary}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).Summary(ctx, req.(*SummaryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func pieChartHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ChartRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).PieChart(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodPieChart}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).PieChart(ctx, req.(*ChartRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func scatterChartHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ChartRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).ScatterChart(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodScatterChart}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).ScatterChart(ctx, req.(*ChartRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// DashboardClient calls the Dashboard service using the JSON codec.
type DashboardClient struct {
	cc grpc.ClientConnInterface
}

// NewDashboardClient wraps an established connection.
func NewDashboardClient(cc grpc.ClientConnInterface) *DashboardClient {
	return &DashboardClient{cc: cc}
}

// Summary fetches the dataset summary.
func (c *DashboardClient) Summary(ctx context.Context, in *SummaryRequest, opts ...grpc.CallOption) (*SummaryResponse, error) {
	out := new(SummaryResponse)
	if err := c.cc.Invoke(ctx, methodSummary, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// PieChart fetches pie chart data for the selection.
func (c *DashboardClient) PieChart(ctx context.Context, in *ChartRequest, opts ...grpc.CallOption) (*models.PieChart, error) {
	out := new(models.PieChart)
	if err := c.cc.Invoke(ctx, methodPieChart, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// ScatterChart fetches scatter chart data for the selection.
func (c *DashboardClient) ScatterChart(ctx context.Context, in *ChartRequest, opts ...grpc.CallOption) (*models.ScatterChart, error) {
	out := new(models.ScatterChart)
	if err := c.cc.Invoke(ctx, methodScatterChart, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
