package junos

import (
	"context"
	"encoding/xml"
	"testing"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestJunos(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t,
		"Junos Suite")
}

var _ = Describe("NewClient()", func() {
	It("joins host and port into the dial target", func() {
		c := NewClient("192.0.2.1", 830, "admin", "secret", 5*time.Second)
		Expect(c.target).To(Equal("192.0.2.1:830"))
	})
	It("brackets IPv6 hosts", func() {
		c := NewClient("2001:db8::1", 830, "admin", "secret", 5*time.Second)
		Expect(c.target).To(Equal("[2001:db8::1]:830"))
	})
})

var _ = Describe("Close()", func() {
	It("is a no-op without a session", func() {
		c := NewClient("192.0.2.1", 830, "admin", "secret", 5*time.Second)
		Expect(c.Close(context.Background())).To(Succeed())
	})
})

var _ = Describe("rpc marshalling", func() {
	It("renders the evpn database request", func() {
		out, err := xml.Marshal(&getEvpnIPPrefixDatabase{})
		Expect(err).ToNot(HaveOccurred())
		Expect(string(out)).To(Equal("<get-evpn-ip-prefix-database-information></get-evpn-ip-prefix-database-information>"))
	})
	It("renders the restart request", func() {
		out, err := xml.Marshal(&restartRoutingProcess{})
		Expect(err).ToNot(HaveOccurred())
		Expect(string(out)).To(Equal("<restart-routing-process></restart-routing-process>"))
	})
	It("captures the reply payload as innerxml", func() {
		var rep RPCReply
		raw := `<rpc-reply><evpn-ip-prefix-database-information>` +
			`<adv-ip-route-status>Accepted</adv-ip-route-status>` +
			`</evpn-ip-prefix-database-information></rpc-reply>`
		Expect(xml.Unmarshal([]byte(raw), &rep)).To(Succeed())
		Expect(string(rep.Body)).To(ContainSubstring("adv-ip-route-status"))
	})
})
