package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `vesselscope mirrors a maritime analytics service: vessels, locations and commodities, plus two projections computed for the current filter (a t-SNE embedding of vessels and vessel movements within a date window).

Workflow:
1) Orient: get_state (date window, selections, collection sizes).
2) Browse: list_entities / get_colors for a kind (vessels, locations, commodities).
3) Narrow: set_date_interval and select_entities refresh projections automatically.
4) Read results: get_projections.
5) Diagnose: recent_requests shows what was sent to the service and how it ended.

Docs: vesselscope://docs/guide
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "vesselscope://docs/guide",
		Name:        "docs_guide",
		Title:       "vesselscope guide",
		Description: "Entities, filter semantics, projections and failure handling.",
		Content: `# vesselscope guide

## Entities

The service returns one flat list. A record is a vessel, location or commodity when its ` + "`type`" + ` contains ` + "`Entity.Vessel`" + `, ` + "`Entity.Location`" + ` or ` + "`Entity.Commodity`" + `. A compound type can put a record in two collections; records matching none are dropped.

Colors are assigned per entity *type* (category), in the order categories first appear. The same data always yields the same colors.

## Filter

- Date window: inclusive ` + "`start_date`" + ` and ` + "`end_date`" + ` (YYYY-MM-DD). The order is not checked.
- Selections: one id list per kind. Loading selects everything; ` + "`reload_entities`" + ` keeps your selection but drops ids that disappeared.
- Focus vessel: a highlight only; it is not checked against the vessel list.

## Projections

- t-SNE: uses **every** vessel and the selected locations.
- Movements: uses the selected vessels and locations. Raw and aggregated lists are replaced together.

Results are replaced wholesale. When two refreshes overlap, only the newest request's result is kept; the older call reports ` + "`SUPERSEDED`" + `.

## Failures

` + "`SERVICE_UNAVAILABLE`" + ` and ` + "`BAD_RESPONSE`" + ` leave the previous state untouched. Nothing is retried automatically; call the tool again. ` + "`recent_requests`" + ` lists each request with its payload and outcome.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
