package auth

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
)

// Role administration endpoints. Mutations are ADMIN-gated at the router;
// these handlers only translate between HTTP and the service.

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, roles)
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	roleID, ok := h.roleIDParam(w, r)
	if !ok {
		return
	}

	role, err := h.Service.GetRole(r.Context(), roleID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, role)
}

// UpdateRolePermissions handles PUT /roles/{id}/permissions: a full matrix
// replace. Cached snapshots and outstanding tokens keep serving the old
// matrix until TTL/expiry; the response reflects the new state immediately.
func (h *Handler) UpdateRolePermissions(w http.ResponseWriter, r *http.Request) {
	roleID, ok := h.roleIDParam(w, r)
	if !ok {
		return
	}

	var dto UpdateRolePermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, err)
		return
	}

	role, err := h.Service.UpdateRolePermissions(r.Context(), roleID, dto.Permissions)
	if err != nil {
		h.Logger.Error("role permissions update failed", "role_id", roleID, "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) GetPermissionCatalog(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.PermissionCatalog())
}

func (h *Handler) roleIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	roleID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid role id")
		return 0, false
	}
	return roleID, true
}
