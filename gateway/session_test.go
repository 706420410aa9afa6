package gateway_test

import (
	"os"
	"path/filepath"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"guardpost.app/registry/gateway"
)

var _ = Describe("FileSession", func() {
	var (
		path    string
		session *gateway.FileSession
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "nested", "credentials.json")
		session = gateway.NewFileSession(path)
	})

	It("starts without a token when the file is missing", func() {
		_, ok := session.CurrentToken()
		Expect(ok).To(BeFalse())
	})

	It("persists the token across instances", func() {
		Expect(session.SetToken("tok-1")).To(Succeed())

		token, ok := gateway.NewFileSession(path).CurrentToken()
		Expect(ok).To(BeTrue())
		Expect(token).To(Equal("tok-1"))
	})

	It("writes the file readable by its owner only", func() {
		if runtime.GOOS == "windows" {
			Skip("unix permissions")
		}
		Expect(session.SetToken("tok-1")).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
	})

	It("removes the token key on clear and tolerates repeats", func() {
		Expect(session.SetToken("tok-1")).To(Succeed())

		Expect(session.Clear()).To(Succeed())
		Expect(session.Clear()).To(Succeed())

		_, ok := session.CurrentToken()
		Expect(ok).To(BeFalse())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("{}"))
	})

	It("clears a session that never existed", func() {
		Expect(session.Clear()).To(Succeed())
	})
})

var _ = Describe("MemorySession", func() {
	It("holds a single token", func() {
		session := gateway.NewMemorySession("")
		_, ok := session.CurrentToken()
		Expect(ok).To(BeFalse())

		Expect(session.SetToken("a")).To(Succeed())
		Expect(session.SetToken("b")).To(Succeed())
		token, ok := session.CurrentToken()
		Expect(ok).To(BeTrue())
		Expect(token).To(Equal("b"))

		Expect(session.Clear()).To(Succeed())
		_, ok = session.CurrentToken()
		Expect(ok).To(BeFalse())
	})
})
