package gateway_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"guardpost.app/registry/gateway"
)

var _ = Describe("SecureURL", func() {
	DescribeTable("upgrades non-local http",
		func(raw, want string) {
			u, err := gateway.SecureURL(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.String()).To(Equal(want))
		},
		Entry("public host", "http://api.guardpost.app", "https://api.guardpost.app"),
		Entry("public host with port and path", "http://api.guardpost.app:8443/v1", "https://api.guardpost.app:8443/v1"),
		Entry("host that only mentions localhost", "http://localhost.evil.com", "https://localhost.evil.com"),
		Entry("already https", "https://api.guardpost.app", "https://api.guardpost.app"),
		Entry("upper-case scheme", "HTTP://api.guardpost.app", "https://api.guardpost.app"),
		Entry("localhost", "http://localhost:8080", "http://localhost:8080"),
		Entry("localhost subdomain", "http://api.localhost:8080", "http://api.localhost:8080"),
		Entry("ipv4 loopback", "http://127.0.0.1:8080", "http://127.0.0.1:8080"),
		Entry("ipv6 loopback", "http://[::1]:8080", "http://[::1]:8080"),
		Entry("unspecified address", "http://0.0.0.0:8080", "http://0.0.0.0:8080"),
	)

	DescribeTable("rejects unusable urls",
		func(raw string) {
			_, err := gateway.SecureURL(raw)
			Expect(err).To(MatchError(gateway.ErrInsecureURL))
		},
		Entry("empty", ""),
		Entry("no scheme", "api.guardpost.app"),
		Entry("other scheme", "ftp://api.guardpost.app"),
		Entry("unparsable", "http://[::1"),
	)
})
