package planner_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tripplanner/pkg/itinerary"
	"github.com/papercomputeco/tripplanner/pkg/llm"
	"github.com/papercomputeco/tripplanner/pkg/llm/llmtest"
	"github.com/papercomputeco/tripplanner/pkg/planner"
)

var _ = Describe("SystemPrompt", func() {
	It("asks for every section the renderer has an icon for, in order", func() {
		blocks := itinerary.Parse(planner.SystemPrompt)

		var sections []string
		for _, b := range blocks {
			if b.Kind == itinerary.KindSection {
				sections = append(sections, b.Text)
				Expect(b.Icon).NotTo(Equal(itinerary.IconNone), b.Text)
			}
		}
		Expect(sections).To(Equal(itinerary.Sections))
	})

	It("asks for per-attraction sub-headings", func() {
		Expect(planner.SystemPrompt).To(ContainSubstring("### [Attraction Name]"))
	})
})

var _ = Describe("Conversation", func() {
	It("sends a system turn then the prompt as the user turn", func() {
		msgs := planner.Conversation("Plan Lisbon")
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[0]).To(Equal(llm.Message{Role: llm.RoleSystem, Content: planner.SystemPrompt}))
		Expect(msgs[1]).To(Equal(llm.Message{Role: llm.RoleUser, Content: "Plan Lisbon"}))
	})
})

var _ = Describe("Collect", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("accumulates the streamed plan and reports each chunk", func() {
		fake := &llmtest.Streamer{Chunks: []string{"## Overview\n", "Trip summary.\n"}}

		var seen []string
		plan, err := planner.Collect(ctx, fake, "Plan Lisbon", func(s string) { seen = append(seen, s) })
		Expect(err).NotTo(HaveOccurred())
		Expect(plan).To(Equal("## Overview\nTrip summary.\n"))
		Expect(seen).To(Equal(fake.Chunks))
		Expect(fake.Calls()).To(HaveLen(1))
	})

	It("fails when the stream cannot be opened", func() {
		fake := &llmtest.Streamer{OpenErr: errors.New("unauthorized")}

		_, err := planner.Collect(ctx, fake, "Plan Lisbon", nil)
		Expect(err).To(MatchError(ContainSubstring("unauthorized")))
	})

	It("returns the partial plan alongside a stream error", func() {
		fake := &llmtest.Streamer{Chunks: []string{"## Overview\n"}, RecvErr: errors.New("reset")}

		plan, err := planner.Collect(ctx, fake, "Plan Lisbon", nil)
		Expect(err).To(HaveOccurred())
		Expect(plan).To(Equal("## Overview\n"))
	})
})
