package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/spec-kit/project-service/internal/api/dto"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// GraphQLHandler executes GraphQL operations against the project schema.
type GraphQLHandler struct {
	schema graphql.Schema
}

// NewGraphQLHandler constructs handler.
func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

// Handle POST /graphql.
//
// Resolver and validation errors are reported in the GraphQL "errors" array with HTTP 200;
// only a body that is not a GraphQL request is rejected at the transport level.
func (h *GraphQLHandler) Handle(c *fiber.Ctx) error {
	var req dto.GraphQLRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid GraphQL request body", err)
	}
	if strings.TrimSpace(req.Query) == "" {
		return apperrors.NewBadRequest("query is required", nil)
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.UserContext(),
	})
	return c.JSON(result)
}
