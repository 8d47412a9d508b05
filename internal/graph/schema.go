package graph

import (
	"github.com/graphql-go/graphql"
)

var projectType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Project",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

func projectIDArg() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"projectId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}
}

// NewSchema builds the executable schema bound to r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "Public endpoint - no auth required",
				Resolve:     r.Hello,
			},
			"whoami": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "Check current authentication status",
				Resolve:     r.Whoami,
			},
			"projects": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(projectType))),
				Description: "Fetch all projects (auth required)",
				Resolve:     r.Projects,
			},
			"getProject": &graphql.Field{
				Type:        projectType,
				Description: "Fetch a single project by ID (auth required)",
				Args:        projectIDArg(),
				Resolve:     r.GetProject,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createProject": &graphql.Field{
				Type: graphql.NewNonNull(projectType),
				Args: graphql.FieldConfigArgument{
					"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.CreateProject,
			},
			"updateProject": &graphql.Field{
				Type: projectType,
				Args: graphql.FieldConfigArgument{
					"projectId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":        &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.UpdateProject,
			},
			"deleteProject": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    projectIDArg(),
				Resolve: r.DeleteProject,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
