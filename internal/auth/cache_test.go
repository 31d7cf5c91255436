package auth

import (
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RoleCache", func() {
	ginkgo.It("should return a stored snapshot before the TTL elapses", func() {
		cache := NewRoleCache(time.Minute)
		cache.Set(RoleSnapshot{RoleID: 1, RoleName: RoleSupervisor, IsActive: true, Permissions: []string{"schedules.view"}})

		snapshot, ok := cache.Get(1)

		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(snapshot.RoleName).To(gomega.Equal(RoleSupervisor))
		gomega.Expect(snapshot.Permissions).To(gomega.Equal([]string{"schedules.view"}))
	})

	ginkgo.It("should miss for a role that was never cached", func() {
		cache := NewRoleCache(time.Minute)

		_, ok := cache.Get(99)

		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("should expire entries after the TTL", func() {
		cache := NewRoleCache(20 * time.Millisecond)
		cache.Set(RoleSnapshot{RoleID: 1, RoleName: RoleSupervisor, IsActive: true})

		_, ok := cache.Get(1)
		gomega.Expect(ok).To(gomega.BeTrue())

		gomega.Eventually(func() bool {
			_, ok := cache.Get(1)
			return ok
		}, 500*time.Millisecond, 10*time.Millisecond).Should(gomega.BeFalse())
	})

	ginkgo.It("should overwrite an existing entry on Set", func() {
		cache := NewRoleCache(time.Minute)
		cache.Set(RoleSnapshot{RoleID: 1, RoleName: RoleSupervisor, Permissions: []string{"schedules.view"}})
		cache.Set(RoleSnapshot{RoleID: 1, RoleName: RoleSupervisor, Permissions: []string{"schedules.view", "schedules.edit"}})

		snapshot, ok := cache.Get(1)

		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(snapshot.Permissions).To(gomega.HaveLen(2))
		gomega.Expect(cache.Len()).To(gomega.Equal(1))
	})

	ginkgo.It("should fall back to the default TTL for a non-positive value", func() {
		cache := NewRoleCache(0)

		gomega.Expect(cache.TTL()).To(gomega.BeNumerically(">", 0))
	})
})
