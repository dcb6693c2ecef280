package plancmder

import (
	"bytes"
	"context"
	"net"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/tripplanner/pkg/form"
	"github.com/papercomputeco/tripplanner/pkg/llm/llmtest"
	"github.com/papercomputeco/tripplanner/pkg/relayclient"
	"github.com/papercomputeco/tripplanner/pkg/trip"
	"github.com/papercomputeco/tripplanner/relay"
)

const samplePlan = "## Overview\nThree days in Lisbon.\n\n## Daily Itinerary\n- Day 1: Alfama\n"

var _ = Describe("Plan Command", func() {
	var (
		ctx      context.Context
		streamer *llmtest.Streamer
		srv      *relay.Relay
		client   *relayclient.Client
		start    string
		end      string
	)

	BeforeEach(func() {
		ctx = context.Background()
		streamer = &llmtest.Streamer{Chunks: []string{"## Overview\n", "Three days in Lisbon.\n\n", "## Daily Itinerary\n", "- Day 1: Alfama\n"}}

		var err error
		srv, err = relay.New(relay.Config{APIKey: "sk-test"}, streamer, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		go func() {
			_ = srv.RunWithListener(listener)
		}()
		client = relayclient.New("http://" + listener.Addr().String())

		start = trip.Today(time.Now().AddDate(0, 1, 0))
		end = trip.Today(time.Now().AddDate(0, 1, 3))
	})

	AfterEach(func() {
		srv.Shutdown()
	})

	It("registers the trip flags", func() {
		cmd := NewPlanCmd()
		for _, name := range []string{"relay", "from", "to", "start", "end", "plain"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})

	It("prints the raw plan in plain mode", func() {
		cmder := &planCommander{from: "Berlin", to: "Lisbon", start: start, end: end, plain: true}
		out := &bytes.Buffer{}

		Expect(cmder.runOnce(ctx, out, form.New(client, zap.NewNop()))).To(Succeed())
		Expect(out.String()).To(Equal(strings.TrimSpace(samplePlan) + "\n"))

		calls := streamer.Calls()
		Expect(calls).To(HaveLen(1))
		Expect(calls[0][1].Content).To(ContainSubstring("- Current Location: Berlin"))
		Expect(calls[0][1].Content).To(ContainSubstring("- Trip Duration: " + start + " to " + end))
	})

	It("renders the plan with section icons", func() {
		cmder := &planCommander{from: "Berlin", to: "Lisbon", start: start, end: end}
		out := &bytes.Buffer{}

		Expect(cmder.runOnce(ctx, out, form.New(client, zap.NewNop()))).To(Succeed())
		Expect(out.String()).To(ContainSubstring("🧭"))
		Expect(out.String()).To(ContainSubstring("📅"))
		Expect(out.String()).To(ContainSubstring("Day 1: Alfama"))
	})

	It("refuses an end date before the start date", func() {
		cmder := &planCommander{from: "Berlin", to: "Lisbon", start: end, end: start, plain: true}
		ctrl := form.New(client, zap.NewNop())

		Expect(cmder.runOnce(ctx, &bytes.Buffer{}, ctrl)).To(MatchError(form.MsgEndBeforeStart))
		Expect(streamer.Calls()).To(BeEmpty())
	})

	It("reports a relay failure", func() {
		streamer.OpenErr = context.DeadlineExceeded
		cmder := &planCommander{from: "Berlin", to: "Lisbon", start: start, end: end, plain: true}

		err := cmder.runOnce(ctx, &bytes.Buffer{}, form.New(client, zap.NewNop()))
		Expect(err).To(MatchError(ContainSubstring("Failed to generate trip plan")))
	})
})
