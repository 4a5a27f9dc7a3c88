package evpn

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	mock_evpn "github.com/telekom/das-schiff-evpn-auditor/pkg/evpn/mock"
	"go.uber.org/mock/gomock"
)

var (
	mockctrl *gomock.Controller
	testLog  = logrus.WithField("device", "test")
)

func TestEvpn(t *testing.T) {
	RegisterFailHandler(Fail)
	mockctrl = gomock.NewController(t)
	defer mockctrl.Finish()
	RunSpecs(t,
		"EVPN Suite")
}

const databasePayload = `<evpn-ip-prefix-database-information>
	<evpn-ip-prefix-database-instance>
		<instance-name>default-switch</instance-name>
		<evpn-ip-prefix-database-entry>
			<entry-prefix>10.0.1.0/24</entry-prefix>
			<adv-ip-route-status>Accepted</adv-ip-route-status>
		</evpn-ip-prefix-database-entry>
		<evpn-ip-prefix-database-entry>
			<entry-prefix>10.0.2.0/24</entry-prefix>
			<adv-ip-route-status> Accepted </adv-ip-route-status>
		</evpn-ip-prefix-database-entry>
		<evpn-ip-prefix-database-entry>
			<entry-prefix>10.0.3.0/24</entry-prefix>
			<adv-ip-route-status>Rejected</adv-ip-route-status>
		</evpn-ip-prefix-database-entry>
		<evpn-ip-prefix-database-entry>
			<entry-prefix>10.0.4.0/24</entry-prefix>
			<adv-ip-route-status>Stalled</adv-ip-route-status>
		</evpn-ip-prefix-database-entry>
	</evpn-ip-prefix-database-instance>
</evpn-ip-prefix-database-information>`

var _ = Describe("CountStatuses()", func() {
	It("tallies statuses anywhere in the reply tree", func() {
		counts, err := CountStatuses([]byte(databasePayload), testLog)
		Expect(err).ToNot(HaveOccurred())
		Expect(counts[Accepted]).To(Equal(2))
		Expect(counts[Rejected]).To(Equal(1))
		Expect(counts[Unknown]).To(Equal(1))
		Expect(counts[Pending]).To(BeZero())
		Expect(counts.Total()).To(Equal(4))
	})
	It("returns zero counts for an empty payload", func() {
		counts, err := CountStatuses(nil, testLog)
		Expect(err).ToNot(HaveOccurred())
		Expect(counts.Total()).To(BeZero())
	})
	It("returns error on a truncated payload", func() {
		_, err := CountStatuses([]byte("<evpn-ip-prefix-database-information><adv-ip"), testLog)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Counts", func() {
	It("renders non-zero counts in a stable order", func() {
		counts := NewCounts()
		counts[Rejected] = 2
		counts[Accepted] = 10
		Expect(counts.String()).To(Equal("Accepted: 10, Rejected: 2"))
	})
	It("renders empty counts as no routes found", func() {
		Expect(NewCounts().String()).To(Equal("no routes found"))
	})
	It("needs a fix only with rejected routes", func() {
		counts := NewCounts()
		Expect(counts.NeedsFix()).To(BeFalse())
		counts[Rejected] = 1
		Expect(counts.NeedsFix()).To(BeTrue())
	})
	It("adds element-wise", func() {
		total := NewCounts()
		counts := NewCounts()
		counts[Accepted] = 3
		counts[Invalid] = 1
		total.Add(counts)
		total.Add(counts)
		Expect(total[Accepted]).To(Equal(6))
		Expect(total[Invalid]).To(Equal(2))
	})
})

var _ = Describe("Checker", func() {
	Context("Status() should", func() {
		It("return counts from the device payload", func() {
			client := mock_evpn.NewMockClient(mockctrl)
			client.EXPECT().EvpnIPPrefixDatabase(gomock.Any()).Return([]byte(databasePayload), nil)
			checker := NewChecker(client, testLog)
			counts, err := checker.Status(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(counts[Accepted]).To(Equal(2))
		})
		It("return error if the rpc fails", func() {
			client := mock_evpn.NewMockClient(mockctrl)
			client.EXPECT().EvpnIPPrefixDatabase(gomock.Any()).Return(nil, errors.New("rpc failed"))
			checker := NewChecker(client, testLog)
			_, err := checker.Status(context.Background())
			Expect(err).To(HaveOccurred())
		})
	})
	Context("RestartRouting() should", func() {
		It("pass through the client result", func() {
			client := mock_evpn.NewMockClient(mockctrl)
			client.EXPECT().RestartRouting(gomock.Any()).Return(nil)
			checker := NewChecker(client, testLog)
			Expect(checker.RestartRouting(context.Background())).To(Succeed())
		})
		It("return error if the restart fails", func() {
			client := mock_evpn.NewMockClient(mockctrl)
			client.EXPECT().RestartRouting(gomock.Any()).Return(errors.New("rpc failed"))
			checker := NewChecker(client, testLog)
			Expect(checker.RestartRouting(context.Background())).ToNot(Succeed())
		})
	})
})
