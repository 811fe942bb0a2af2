package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"walletportal/models"
	"walletportal/service"

	"github.com/graphql-go/graphql"
)

type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

type walletResult struct {
	Token     string `json:"token"`
	Address   string `json:"address"`
	Balance   string `json:"balance"`
	QRPayload string `json:"qrPayload"`
}

func (h Handler) GraphQLHandler(w http.ResponseWriter, r *http.Request) {
	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
	respondWithJSON(w, http.StatusOK, result)
}

func newSchema(svc service.Service) (graphql.Schema, error) {
	walletType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Wallet",
		Fields: graphql.Fields{
			"token":     &graphql.Field{Type: graphql.String},
			"address":   &graphql.Field{Type: graphql.String},
			"balance":   &graphql.Field{Type: graphql.String},
			"qrPayload": &graphql.Field{Type: graphql.String},
		},
	})

	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"name":        &graphql.Field{Type: graphql.String},
			"balance":     &graphql.Field{Type: graphql.String},
			"trxBalance":  &graphql.Field{Type: graphql.String},
			"usdtBalance": &graphql.Field{Type: graphql.String},
			"usdcBalance": &graphql.Field{Type: graphql.String},
		},
	})

	wallet := func(sess models.Session, requested string) walletResult {
		v := svc.Receive(sess, requested)
		token := models.ParseTokenType(v.Token)
		return walletResult{
			Token:     v.Token,
			Address:   v.Address,
			Balance:   token.Balance(sess.User).String(),
			QRPayload: v.QRPayload,
		}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"wallet": &graphql.Field{
				Type: walletType,
				Args: graphql.FieldConfigArgument{
					"token": &graphql.ArgumentConfig{
						Type:         graphql.String,
						DefaultValue: models.DefaultToken.String(),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, ok := sessionFrom(p.Context)
					if !ok {
						return nil, errors.New("session required")
					}
					requested, _ := p.Args["token"].(string)
					return wallet(sess, requested), nil
				},
			},
			"wallets": &graphql.Field{
				Type: graphql.NewList(walletType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, ok := sessionFrom(p.Context)
					if !ok {
						return nil, errors.New("session required")
					}
					var out []walletResult
					for _, t := range models.AllTokens() {
						out = append(out, wallet(sess, t.String()))
					}
					return out, nil
				},
			},
			"profile": &graphql.Field{
				Type: profileType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, ok := sessionFrom(p.Context)
					if !ok {
						return nil, errors.New("session required")
					}
					u := sess.User
					return map[string]interface{}{
						"name":        u.Name,
						"balance":     u.Balance.String(),
						"trxBalance":  u.TRXBalance.String(),
						"usdtBalance": u.USDTBalance.String(),
						"usdcBalance": u.USDCBalance.String(),
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}
