package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openloom/workspace-chat/internal/api/response"
	"github.com/openloom/workspace-chat/internal/service"
)

// WorkspaceContext resolves the {slug} URL parameter to a workspace and adds
// it to the request context. Unknown slugs get a 404.
func WorkspaceContext(workspaces *service.WorkspaceService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, "slug")
			if slug == "" {
				response.BadRequest(w, "missing workspace slug")
				return
			}

			workspace, err := workspaces.GetBySlug(r.Context(), slug)
			if err != nil {
				if errors.Is(err, service.ErrWorkspaceNotFound) {
					response.NotFound(w, "workspace not found")
					return
				}
				response.InternalError(w, "failed to load workspace")
				return
			}

			ctx := context.WithValue(r.Context(), WorkspaceKey, workspace)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ThreadContext resolves the {threadSlug} URL parameter within the workspace
// already on the context. Must run after WorkspaceContext.
func ThreadContext(threads *service.ThreadService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			workspace, ok := GetWorkspace(r.Context())
			if !ok {
				response.InternalError(w, "workspace not resolved")
				return
			}

			slug := chi.URLParam(r, "threadSlug")
			if slug == "" {
				response.BadRequest(w, "missing thread slug")
				return
			}

			thread, err := threads.GetBySlug(r.Context(), workspace.ID, slug)
			if err != nil {
				if errors.Is(err, service.ErrThreadNotFound) {
					response.NotFound(w, "thread not found")
					return
				}
				response.InternalError(w, "failed to load thread")
				return
			}

			ctx := context.WithValue(r.Context(), ThreadKey, thread)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
