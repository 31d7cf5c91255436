package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/mfauzirh/workforce-management/internal"
	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
	userdm "github.com/mfauzirh/workforce-management/internal/core/datamodel/user"
)

var _ = ginkgo.Describe("TokenIssuer", func() {
	var (
		issuer *TokenIssuer
		user   *userdm.User
		role   *roledm.Role
	)

	ginkgo.BeforeEach(func() {
		issuer = NewTokenIssuer("test-secret-key-at-least-32-chars!!", time.Hour)
		user = &userdm.User{ID: 42, Username: "sari.spv", Status: userdm.StatusActive}
		role = &roledm.Role{
			ID: 1, Name: RoleSupervisor, IsActive: true,
			Permissions: []roledm.ResourcePermission{
				{Resource: ResourceSchedules, Actions: []string{roledm.ActionView, roledm.ActionEdit}},
			},
		}
	})

	ginkgo.Describe("Issue", func() {
		ginkgo.It("should embed the flattened permission set", func() {
			token, claims, err := issuer.Issue(user, role)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(token).ToNot(gomega.BeEmpty())
			gomega.Expect(claims.UserID).To(gomega.Equal(int64(42)))
			gomega.Expect(claims.RoleName).To(gomega.Equal(RoleSupervisor))
			gomega.Expect(claims.Permissions).To(gomega.Equal([]string{"schedules.edit", "schedules.view"}))
			gomega.Expect(claims.Complete()).To(gomega.BeTrue())
			gomega.Expect(claims.ID).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should issue without role claims when the role is nil", func() {
			_, claims, err := issuer.Issue(user, nil)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.RoleName).To(gomega.BeEmpty())
			gomega.Expect(claims.Permissions).To(gomega.BeEmpty())
			gomega.Expect(claims.Complete()).To(gomega.BeFalse())
		})

		ginkgo.It("should issue without role claims when the role is inactive", func() {
			role.IsActive = false

			_, claims, err := issuer.Issue(user, role)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Complete()).To(gomega.BeFalse())
		})

		ginkgo.It("should mint a unique token id per issuance", func() {
			_, first, err := issuer.Issue(user, role)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, second, err := issuer.Issue(user, role)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(first.ID).ToNot(gomega.Equal(second.ID))
		})
	})

	ginkgo.Describe("Verify", func() {
		ginkgo.It("should round-trip issued claims", func() {
			token, issued, err := issuer.Issue(user, role)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			parsed, err := issuer.Verify(token)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(parsed.UserID).To(gomega.Equal(issued.UserID))
			gomega.Expect(parsed.RoleID).To(gomega.Equal(issued.RoleID))
			gomega.Expect(parsed.Permissions).To(gomega.Equal(issued.Permissions))
		})

		ginkgo.It("should reject an expired token with TOKEN_EXPIRED", func() {
			issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
			token, _, err := issuer.Issue(user, role)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = issuer.Verify(token)

			gomega.Expect(errors.Is(err, internal.ErrTokenExpired)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a tampered token with TOKEN_MALFORMED", func() {
			token, _, err := issuer.Issue(user, role)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			parts := strings.Split(token, ".")
			parts[1] = parts[1][:len(parts[1])-2] + "xx"
			tampered := strings.Join(parts, ".")

			_, err = issuer.Verify(tampered)

			gomega.Expect(errors.Is(err, internal.ErrTokenMalformed)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a token signed with a different secret", func() {
			other := NewTokenIssuer("another-secret-key-of-enough-size!!", time.Hour)
			token, _, err := other.Issue(user, role)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = issuer.Verify(token)

			gomega.Expect(errors.Is(err, internal.ErrTokenMalformed)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject garbage input", func() {
			_, err := issuer.Verify("definitely-not-a-jwt")

			gomega.Expect(errors.Is(err, internal.ErrTokenMalformed)).To(gomega.BeTrue())
		})
	})
})
