package api

import (
	"fmt"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gorilla/mux"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/pkg/models"
)

// Objects are mux path templates, so one policy line covers every id.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

var rbacPolicies = [][]string{
	{models.RoleUser, "/api/users/me", http.MethodGet},
	{models.RoleUser, "/api/incidents/report", http.MethodPost},
	{models.RoleUser, "/api/incidents", http.MethodGet},
	{models.RoleUser, "/api/incidents/{id}", http.MethodGet},
	{models.RoleUser, "/api/cases/{id}", http.MethodGet},
	{models.RoleUser, "/api/emergency-contacts*", "*"},
	{models.RoleAdmin, "/api/*", "*"},
}

// NewEnforcer builds the in-memory role policy. Admins inherit every user
// permission.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}

	if _, err := e.AddPolicies(rbacPolicies); err != nil {
		return nil, fmt.Errorf("rbac policies: %w", err)
	}
	if _, err := e.AddGroupingPolicy(models.RoleAdmin, models.RoleUser); err != nil {
		return nil, fmt.Errorf("rbac roles: %w", err)
	}

	return e, nil
}

// RBACMiddleware must run after JWTAuthMiddlewareWithSecret.
func RBACMiddleware(e *casbin.Enforcer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, role := caller(r)
			if role == "" {
				writeError(w, r, apperr.Auth("Unauthorized"))
				return
			}

			obj := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					obj = tpl
				}
			}

			ok, err := e.Enforce(role, obj, r.Method)
			if err != nil {
				writeError(w, r, apperr.Server("Internal Server Error", err))
				return
			}
			if !ok {
				writeError(w, r, apperr.Forbidden("Forbidden"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
