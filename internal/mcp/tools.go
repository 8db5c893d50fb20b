package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/vesselscope/internal/derive"
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/domain/requestlog"
	"github.com/rpggio/vesselscope/internal/store"
)

type tools struct {
	store    *store.Store
	requests RequestLister
}

func registerTools(server *sdkmcp.Server, services Services) {
	t := &tools{store: services.Store, requests: services.Requests}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_state",
		Description: "Get the date window, selections, focus vessel and collection sizes",
	}, t.getState)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_entities",
		Description: "List vessels, locations or commodities with their category color",
	}, t.listEntities)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_colors",
		Description: "Get the category to color assignment for an entity kind",
	}, t.getColors)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_date_interval",
		Description: "Set the inclusive date window and refresh projections",
	}, t.setDateInterval)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_entities",
		Description: "Replace the selection for an entity kind and refresh projections",
	}, t.selectEntities)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_focus_vessel",
		Description: "Highlight a vessel",
	}, t.setFocusVessel)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "refresh_projections",
		Description: "Refetch the t-SNE embedding and vessel movements for the current filter",
	}, t.refreshProjections)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_projections",
		Description: "Get the last t-SNE embedding and vessel movements",
	}, t.getProjections)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reload_entities",
		Description: "Refetch all entities, keeping selections that still exist",
	}, t.reloadEntities)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_requests",
		Description: "List recent requests to the analytics service, newest first",
	}, t.recentRequests)
}

func (t *tools) getState(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, stateView, error) {
	return nil, newStateView(t.store.State()), nil
}

func (t *tools) listEntities(_ context.Context, _ *sdkmcp.CallToolRequest, in listEntitiesInput) (*sdkmcp.CallToolResult, listEntitiesOutput, error) {
	kind, err := entity.ParseKind(in.Kind)
	if err != nil {
		return nil, listEntitiesOutput{}, toolError(err)
	}

	views := t.store.Views()
	var all []entityView
	switch kind {
	case entity.KindVessel:
		for _, v := range t.store.Vessels() {
			color, _ := views.VesselColors.ColorOf(v.Type)
			all = append(all, entityView{ID: v.ID, Name: v.Name, Type: v.Type, Color: color})
		}
	case entity.KindLocation:
		for _, l := range t.store.Locations() {
			color, _ := views.LocationColors.ColorOf(l.Type)
			all = append(all, entityView{
				ID: l.ID, Name: l.Name, Type: l.Type, Color: color,
				Kind: l.Kind, Activities: l.Activities, Description: l.Description,
			})
		}
	case entity.KindCommodity:
		for _, c := range t.store.Commodities() {
			color, _ := views.CommodityColors.ColorOf(c.Type)
			all = append(all, entityView{ID: c.ID, Name: c.Name, Type: c.Type, Color: color})
		}
	}

	out := listEntitiesOutput{Kind: string(kind), Total: len(all), Entities: truncate(all, in.Limit)}
	if out.Entities == nil {
		out.Entities = []entityView{}
	}
	return nil, out, nil
}

func (t *tools) getColors(_ context.Context, _ *sdkmcp.CallToolRequest, in kindInput) (*sdkmcp.CallToolResult, colorsOutput, error) {
	kind, err := entity.ParseKind(in.Kind)
	if err != nil {
		return nil, colorsOutput{}, toolError(err)
	}
	scale, err := t.store.Colors(kind)
	if err != nil {
		return nil, colorsOutput{}, toolError(err)
	}
	assignments := scale.Assignments()
	if assignments == nil {
		assignments = []derive.Assignment{}
	}
	return nil, colorsOutput{Kind: string(kind), Assignments: assignments}, nil
}

func (t *tools) setDateInterval(ctx context.Context, _ *sdkmcp.CallToolRequest, in setDateIntervalInput) (*sdkmcp.CallToolResult, stateView, error) {
	iv, err := entity.ParseDateInterval(in.StartDate, in.EndDate)
	if err != nil {
		return nil, stateView{}, toolError(err)
	}
	t.store.SetDateInterval(iv)
	return t.refreshAndState(ctx)
}

func (t *tools) selectEntities(ctx context.Context, _ *sdkmcp.CallToolRequest, in selectEntitiesInput) (*sdkmcp.CallToolResult, stateView, error) {
	kind, err := entity.ParseKind(in.Kind)
	if err != nil {
		return nil, stateView{}, toolError(err)
	}
	if err := t.store.SetSelection(kind, in.IDs); err != nil {
		return nil, stateView{}, toolError(err)
	}
	return t.refreshAndState(ctx)
}

func (t *tools) refreshAndState(ctx context.Context) (*sdkmcp.CallToolResult, stateView, error) {
	if err := t.store.RefreshProjections(ctx); err != nil {
		return nil, stateView{}, toolError(err)
	}
	return nil, newStateView(t.store.State()), nil
}

func (t *tools) setFocusVessel(_ context.Context, _ *sdkmcp.CallToolRequest, in setFocusVesselInput) (*sdkmcp.CallToolResult, stateView, error) {
	t.store.SetFocusVesselID(in.VesselID)
	return nil, newStateView(t.store.State()), nil
}

func (t *tools) refreshProjections(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, projectionsOutput, error) {
	if err := t.store.RefreshProjections(ctx); err != nil {
		return nil, projectionsOutput{}, toolError(err)
	}
	return nil, newProjectionsOutput(t.store, 0), nil
}

func (t *tools) getProjections(_ context.Context, _ *sdkmcp.CallToolRequest, in getProjectionsInput) (*sdkmcp.CallToolResult, projectionsOutput, error) {
	return nil, newProjectionsOutput(t.store, in.Limit), nil
}

func (t *tools) reloadEntities(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, stateView, error) {
	if err := t.store.Reload(ctx); err != nil {
		return nil, stateView{}, toolError(err)
	}
	return nil, newStateView(t.store.State()), nil
}

func (t *tools) recentRequests(ctx context.Context, _ *sdkmcp.CallToolRequest, in recentRequestsInput) (*sdkmcp.CallToolResult, recentRequestsOutput, error) {
	out := recentRequestsOutput{Requests: []requestView{}}
	if t.requests == nil {
		return nil, out, nil
	}

	opts := requestlog.ListOptions{Endpoint: in.Endpoint, Limit: in.Limit}
	if in.Outcome != "" {
		outcome := requestlog.Outcome(in.Outcome)
		opts.Outcome = &outcome
	}
	entries, err := t.requests.Recent(ctx, opts)
	if err != nil {
		return nil, recentRequestsOutput{}, err
	}
	for _, e := range entries {
		out.Requests = append(out.Requests, newRequestView(e))
	}
	return nil, out, nil
}
