package handlers

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/vaughan-dsouza/userdir/internal/utils"
)

type GraphQLHandler struct {
	Schema graphql.Schema
}

func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{Schema: schema}
}

type graphQLReq struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Execute runs one GraphQL request. A document that fails to parse or
// validate produces no data and answers 400; everything else answers 200.
func (h *GraphQLHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req graphQLReq
	if err := utils.DecodeJSONLoose(w, r, &req); err != nil {
		return
	}

	res := graphql.Do(graphql.Params{
		Schema:         h.Schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	status := http.StatusOK
	if res.Data == nil && res.HasErrors() {
		status = http.StatusBadRequest
	}
	utils.JSON(w, status, res)
}

// Playground serves a GraphiQL page pointed at this endpoint.
func (h *GraphQLHandler) Playground(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(graphiQLPage))
}

const graphiQLPage = `<!DOCTYPE html>
<html>
<head>
  <title>GraphiQL</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
</head>
<body style="margin: 0;">
  <div id="graphiql" style="height: 100vh;"></div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: window.location.pathname });
    ReactDOM.createRoot(document.getElementById('graphiql')).render(React.createElement(GraphiQL, { fetcher }));
  </script>
</body>
</html>`
