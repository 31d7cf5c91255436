package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
	userdm "github.com/mfauzirh/workforce-management/internal/core/datamodel/user"
	"github.com/mfauzirh/workforce-management/internal/core/events"
)

var _ = ginkgo.Describe("Auth HTTP Handler", func() {
	var (
		handler  *Handler
		service  *Service
		userRepo *mockUserRepository
		roleRepo *mockRoleRepository
		issuer   *TokenIssuer
		router   *chi.Mux
		password = "correct_password"
	)

	login := func(username string) string {
		resp, err := service.Login(context.Background(), LoginDTO{Username: username, Password: password})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return resp.Token
	}

	ginkgo.BeforeEach(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		userRepo = newMockUserRepository()
		roleRepo = newMockRoleRepository()
		issuer = NewTokenIssuer("test-secret-key-at-least-32-chars!!", time.Hour)
		service = NewService(userRepo, roleRepo, issuer, NewRoleCache(time.Minute), events.NewEventBus(nil), bcrypt.MinCost, nil)
		handler = NewHandler(service)

		roleRepo.add(&roledm.Role{
			ID: 1, Name: RoleAdmin, DisplayName: "Administrator", IsActive: true,
			Permissions: []roledm.ResourcePermission{
				{Resource: ResourceRoles, Actions: []string{roledm.ActionView, roledm.ActionEdit}},
			},
		})
		roleRepo.add(&roledm.Role{
			ID: 2, Name: RoleFrontliner, DisplayName: "Frontliner", IsActive: true,
			Permissions: []roledm.ResourcePermission{
				{Resource: ResourceSchedules, Actions: []string{roledm.ActionView}},
			},
		})
		userRepo.add(&userdm.User{
			ID: 1, Username: "padil.admin", Name: "Padil", PasswordHash: string(hash),
			RoleID: int64Ptr(1), RoleName: RoleAdmin, Status: userdm.StatusActive,
		})
		userRepo.add(&userdm.User{
			ID: 2, Username: "bayu.fk", Name: "Bayu", PasswordHash: string(hash),
			RoleID: int64Ptr(2), RoleName: RoleFrontliner, Status: userdm.StatusActive,
		})

		router = chi.NewRouter()
		router.Post("/auth/login", handler.Login)
		router.Group(func(r chi.Router) {
			r.Use(handler.RequireAuth)
			r.Get("/users/me", handler.Me)
			r.With(handler.RequirePermission(ResourceRoles, roledm.ActionView)).
				Get("/roles", handler.ListRoles)
			r.With(handler.RequireRole(RoleAdmin)).
				Put("/roles/{id}/permissions", handler.UpdateRolePermissions)
		})
	})

	ginkgo.Describe("POST /auth/login", func() {
		ginkgo.It("should return 200 with a token for valid credentials", func() {
			body, _ := json.Marshal(LoginDTO{Username: "padil.admin", Password: password})
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var resp LoginResponse
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp.Token).ToNot(gomega.BeEmpty())
			gomega.Expect(resp.User.Username).To(gomega.Equal("padil.admin"))
		})

		ginkgo.It("should return 401 for wrong credentials", func() {
			body, _ := json.Marshal(LoginDTO{Username: "padil.admin", Password: "nope"})
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("INVALID_CREDENTIALS"))
		})

		ginkgo.It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("{")))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("RequireAuth", func() {
		ginkgo.It("should return 401 without an Authorization header", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("UNAUTHENTICATED"))
		})

		ginkgo.It("should return 401 for a malformed token", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer garbage")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("TOKEN_MALFORMED"))
		})

		ginkgo.It("should expose the resolved identity on /users/me", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+login("bayu.fk"))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var actx AuthContext
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &actx)).To(gomega.Succeed())
			gomega.Expect(actx.UserID).To(gomega.Equal(int64(2)))
			gomega.Expect(actx.RoleName).To(gomega.Equal(RoleFrontliner))
			gomega.Expect(actx.Permissions).To(gomega.ContainElement("schedules.view"))
		})
	})

	ginkgo.Describe("RequirePermission", func() {
		ginkgo.It("should return 403 when the grant is missing", func() {
			req := httptest.NewRequest(http.MethodGet, "/roles", nil)
			req.Header.Set("Authorization", "Bearer "+login("bayu.fk"))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("roles.view"))
		})

		ginkgo.It("should pass the admin through regardless of the matrix", func() {
			req := httptest.NewRequest(http.MethodGet, "/roles", nil)
			req.Header.Set("Authorization", "Bearer "+login("padil.admin"))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("RequireRole", func() {
		ginkgo.It("should return 403 for a role outside the gate", func() {
			body, _ := json.Marshal(UpdateRolePermissionsDTO{})
			req := httptest.NewRequest(http.MethodPut, "/roles/2/permissions", bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+login("bayu.fk"))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should let the admin replace a role matrix", func() {
			body, _ := json.Marshal(UpdateRolePermissionsDTO{
				Permissions: []roledm.ResourcePermission{
					{Resource: ResourceSchedules, Actions: []string{roledm.ActionView, roledm.ActionEdit}},
				},
			})
			req := httptest.NewRequest(http.MethodPut, "/roles/2/permissions", bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+login("padil.admin"))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var updated roledm.Role
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &updated)).To(gomega.Succeed())
			gomega.Expect(updated.Flatten()).To(gomega.Equal([]string{"schedules.edit", "schedules.view"}))
		})

		ginkgo.It("should return 400 for an invalid action in the matrix", func() {
			body, _ := json.Marshal(UpdateRolePermissionsDTO{
				Permissions: []roledm.ResourcePermission{
					{Resource: ResourceSchedules, Actions: []string{"approve"}},
				},
			})
			req := httptest.NewRequest(http.MethodPut, "/roles/2/permissions", bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+login("padil.admin"))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})
})
