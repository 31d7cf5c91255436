package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	userdm "github.com/mfauzirh/workforce-management/internal/core/datamodel/user"
)

var _ = ginkgo.Describe("ResolveEffectiveRole", func() {
	ginkgo.Context("priority order", func() {
		ginkgo.It("should prefer the explicit role over any group hint", func() {
			u := &userdm.User{RoleName: RoleSupervisor, GroupCode: "ADM", GroupName: "Frontliner"}

			name, source := ResolveEffectiveRole(u)

			gomega.Expect(name).To(gomega.Equal(RoleSupervisor))
			gomega.Expect(source).To(gomega.Equal(SourceExplicitRole))
		})

		ginkgo.It("should fall through to the group code when the explicit role is unknown", func() {
			u := &userdm.User{RoleName: "MANAGER", GroupCode: "FK"}

			name, source := ResolveEffectiveRole(u)

			gomega.Expect(name).To(gomega.Equal(RoleFrontliner))
			gomega.Expect(source).To(gomega.Equal(SourceGroupCode))
		})

		ginkgo.It("should fall through to the group name when the code is unrecognized", func() {
			u := &userdm.User{GroupCode: "XYZ", GroupName: "Supervisor"}

			name, source := ResolveEffectiveRole(u)

			gomega.Expect(name).To(gomega.Equal(RoleSupervisor))
			gomega.Expect(source).To(gomega.Equal(SourceGroupName))
		})

		ginkgo.It("should degrade to the default role when nothing matches", func() {
			u := &userdm.User{RoleName: "GHOST", GroupCode: "???", GroupName: "Unknown Dept"}

			name, source := ResolveEffectiveRole(u)

			gomega.Expect(name).To(gomega.Equal(DefaultRole))
			gomega.Expect(source).To(gomega.Equal(SourceDefault))
		})
	})

	ginkgo.Context("input normalization", func() {
		ginkgo.It("should ignore case and surrounding whitespace", func() {
			u := &userdm.User{GroupCode: "  fk  "}

			name, source := ResolveEffectiveRole(u)

			gomega.Expect(name).To(gomega.Equal(RoleFrontliner))
			gomega.Expect(source).To(gomega.Equal(SourceGroupCode))
		})

		ginkgo.It("should map legacy free-text department labels", func() {
			u := &userdm.User{GroupName: "front kantor"}

			name, _ := ResolveEffectiveRole(u)

			gomega.Expect(name).To(gomega.Equal(RoleFrontliner))
		})

		ginkgo.It("should treat blank fields as absent, not as a lookup key", func() {
			u := &userdm.User{RoleName: "   ", GroupCode: "", GroupName: "STAF"}

			name, source := ResolveEffectiveRole(u)

			gomega.Expect(name).To(gomega.Equal(RoleStaff))
			gomega.Expect(source).To(gomega.Equal(SourceGroupName))
		})
	})

	ginkgo.Context("totality and determinism", func() {
		ginkgo.It("should resolve a nil user to the default role", func() {
			name, source := ResolveEffectiveRole(nil)

			gomega.Expect(name).To(gomega.Equal(DefaultRole))
			gomega.Expect(source).To(gomega.Equal(SourceDefault))
		})

		ginkgo.It("should return the same result on repeated calls", func() {
			u := &userdm.User{RoleName: "MANAGER", GroupCode: "SPV"}

			first, firstSource := ResolveEffectiveRole(u)
			for i := 0; i < 50; i++ {
				name, source := ResolveEffectiveRole(u)
				gomega.Expect(name).To(gomega.Equal(first))
				gomega.Expect(source).To(gomega.Equal(firstSource))
			}
		})
	})
})
