// Package graphql exposes the public catalog as a read-only GraphQL schema.
package graphql

import (
	"errors"

	gql "github.com/graphql-go/graphql"
	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/collection"
	"github.com/sudeviagro/backoffice/pkg/graphql"
)

var productType = gql.NewObject(gql.ObjectConfig{
	Name: "Product",
	Fields: gql.Fields{
		"id":          &gql.Field{Type: gql.NewNonNull(gql.ID)},
		"name":        &gql.Field{Type: gql.NewNonNull(gql.String)},
		"description": &gql.Field{Type: gql.String},
		"category":    &gql.Field{Type: gql.NewNonNull(gql.String)},
		"price":       &gql.Field{Type: gql.Float},
		"imageUrl":    &gql.Field{Type: gql.String},
		"features":    &gql.Field{Type: gql.NewList(gql.String)},
		"shopLink":    &gql.Field{Type: gql.String},
	},
})

var jobOpeningType = gql.NewObject(gql.ObjectConfig{
	Name: "JobOpening",
	Fields: gql.Fields{
		"id":           &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"title":        &gql.Field{Type: gql.NewNonNull(gql.String)},
		"department":   &gql.Field{Type: gql.String},
		"location":     &gql.Field{Type: gql.String},
		"type":         &gql.Field{Type: gql.String},
		"description":  &gql.Field{Type: gql.String},
		"requirements": &gql.Field{Type: gql.NewList(gql.String)},
	},
})

// NewSchema builds the catalog schema on top of the public services.
func NewSchema(products *services.ProductService, jobs *services.JobService) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"products": &gql.Field{
				Type: gql.NewList(productType),
				Args: gql.FieldConfigArgument{
					"category": &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					category, _ := p.Args["category"].(string)
					list, err := products.Catalog(p.Context, category)
					if err != nil {
						return nil, err
					}
					return collection.Map(list, productFields), nil
				},
			},
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					item, err := products.FindActive(p.Context, id)
					if errors.Is(err, repositories.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return productFields(item), nil
				},
			},
			"jobOpenings": &gql.Field{
				Type: gql.NewList(jobOpeningType),
				Resolve: func(p gql.ResolveParams) (any, error) {
					list, err := jobs.Careers(p.Context)
					if err != nil {
						return nil, err
					}
					return collection.Map(list, jobFields), nil
				},
			},
		},
	})
	return graphql.NewSchema(query)
}

func productFields(p models.Product) map[string]any {
	m := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"imageUrl":    p.ImageURL,
		"features":    p.Features,
		"shopLink":    p.ShopLink,
	}
	if p.Price != nil {
		m["price"] = *p.Price
	}
	return m
}

func jobFields(j models.JobOpening) map[string]any {
	return map[string]any{
		"id":           int(j.ID),
		"title":        j.Title,
		"department":   j.Department,
		"location":     j.Location,
		"type":         j.Type,
		"description":  j.Description,
		"requirements": j.Requirements,
	}
}
