package auth

import (
	"context"
	"errors"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/mfauzirh/workforce-management/internal"
	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
	userdm "github.com/mfauzirh/workforce-management/internal/core/datamodel/user"
)

var _ = ginkgo.Describe("FallbackResolver", func() {
	var (
		resolver *FallbackResolver
		userRepo *mockUserRepository
		roleRepo *mockRoleRepository
		cache    *RoleCache
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		userRepo = newMockUserRepository()
		roleRepo = newMockRoleRepository()
		cache = NewRoleCache(time.Minute)
		resolver = NewFallbackResolver(userRepo, roleRepo, cache, nil)
		ctx = context.Background()

		roleRepo.add(&roledm.Role{
			ID: 1, Name: RoleSupervisor, IsActive: true,
			Permissions: []roledm.ResourcePermission{
				{Resource: ResourceSchedules, Actions: []string{roledm.ActionView, roledm.ActionEdit}},
			},
		})
		userRepo.add(&userdm.User{
			ID: 10, Username: "sari.spv", RoleID: int64Ptr(1),
			RoleName: RoleSupervisor, Status: userdm.StatusActive,
		})
	})

	ginkgo.Context("happy path", func() {
		ginkgo.It("should produce the same context shape the claim path does", func() {
			actx, err := resolver.Resolve(ctx, 10)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(actx.UserID).To(gomega.Equal(int64(10)))
			gomega.Expect(actx.RoleID).To(gomega.Equal(int64(1)))
			gomega.Expect(actx.RoleName).To(gomega.Equal(RoleSupervisor))
			gomega.Expect(actx.Permissions).To(gomega.Equal([]string{"schedules.edit", "schedules.view"}))
		})

		ginkgo.It("should hit the store once and serve the cache afterwards", func() {
			_, err := resolver.Resolve(ctx, 10)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(roleRepo.findByIDCalls).To(gomega.Equal(1))

			for i := 0; i < 5; i++ {
				_, err := resolver.Resolve(ctx, 10)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			}

			gomega.Expect(roleRepo.findByIDCalls).To(gomega.Equal(1))
		})

		ginkgo.It("should reload from the store once the cached entry expires", func() {
			shortCache := NewRoleCache(20 * time.Millisecond)
			resolver = NewFallbackResolver(userRepo, roleRepo, shortCache, nil)

			_, err := resolver.Resolve(ctx, 10)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Eventually(func() int {
				_, _ = resolver.Resolve(ctx, 10)
				return roleRepo.findByIDCalls
			}, 500*time.Millisecond, 10*time.Millisecond).Should(gomega.BeNumerically(">", 1))
		})
	})

	ginkgo.Context("denials", func() {
		ginkgo.It("should deny an unknown user with USER_NOT_FOUND", func() {
			_, err := resolver.Resolve(ctx, 404)

			gomega.Expect(errors.Is(err, internal.ErrUserNotFound)).To(gomega.BeTrue())
		})

		ginkgo.It("should deny an inactive user with ACCOUNT_INACTIVE", func() {
			userRepo.add(&userdm.User{ID: 11, Username: "gone", RoleID: int64Ptr(1), Status: "inactive"})

			_, err := resolver.Resolve(ctx, 11)

			gomega.Expect(errors.Is(err, internal.ErrAccountInactive)).To(gomega.BeTrue())
		})

		ginkgo.It("should deny a user without a role reference with ROLE_NOT_FOUND", func() {
			userRepo.add(&userdm.User{ID: 12, Username: "noref", GroupCode: "FK", Status: userdm.StatusActive})

			_, err := resolver.Resolve(ctx, 12)

			gomega.Expect(errors.Is(err, internal.ErrRoleNotFound)).To(gomega.BeTrue())
		})

		ginkgo.It("should deny a dangling role reference with ROLE_NOT_FOUND", func() {
			userRepo.add(&userdm.User{ID: 13, Username: "dangling", RoleID: int64Ptr(999), Status: userdm.StatusActive})

			_, err := resolver.Resolve(ctx, 13)

			gomega.Expect(errors.Is(err, internal.ErrRoleNotFound)).To(gomega.BeTrue())
		})

		ginkgo.It("should deny an inactive role with ROLE_INACTIVE", func() {
			roleRepo.add(&roledm.Role{ID: 2, Name: RoleFrontliner, IsActive: false})
			userRepo.add(&userdm.User{ID: 14, Username: "fk", RoleID: int64Ptr(2), Status: userdm.StatusActive})

			_, err := resolver.Resolve(ctx, 14)

			gomega.Expect(errors.Is(err, internal.ErrRoleInactive)).To(gomega.BeTrue())
		})

		ginkgo.It("should cache inactive roles and keep denying from the cache", func() {
			roleRepo.add(&roledm.Role{ID: 2, Name: RoleFrontliner, IsActive: false})
			userRepo.add(&userdm.User{ID: 14, Username: "fk", RoleID: int64Ptr(2), Status: userdm.StatusActive})

			_, err := resolver.Resolve(ctx, 14)
			gomega.Expect(errors.Is(err, internal.ErrRoleInactive)).To(gomega.BeTrue())
			callsAfterFirst := roleRepo.findByIDCalls

			_, err = resolver.Resolve(ctx, 14)
			gomega.Expect(errors.Is(err, internal.ErrRoleInactive)).To(gomega.BeTrue())
			gomega.Expect(roleRepo.findByIDCalls).To(gomega.Equal(callsAfterFirst))
		})
	})

	ginkgo.Context("store failures", func() {
		ginkgo.It("should surface a user store failure as INTERNAL, not a deny", func() {
			userRepo.returnError = errors.New("connection refused")

			_, err := resolver.Resolve(ctx, 10)

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeInternal))
		})

		ginkgo.It("should surface a role store failure as INTERNAL", func() {
			roleRepo.returnError = errors.New("connection refused")

			_, err := resolver.Resolve(ctx, 10)

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeInternal))
		})
	})
})
