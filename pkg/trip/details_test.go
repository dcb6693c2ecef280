package trip_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tripplanner/pkg/trip"
)

var _ = Describe("Details", func() {
	Describe("With", func() {
		It("updates a single field", func() {
			d, err := trip.Details{}.With(trip.FieldDestination, "Lisbon")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Destination).To(Equal("Lisbon"))
			Expect(d.CurrentLocation).To(BeEmpty())
		})

		It("clamps the end date when the start date moves past it", func() {
			d := trip.Details{StartDate: "2024-06-01", EndDate: "2024-06-03"}

			d, err := d.With(trip.FieldStartDate, "2024-06-10")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.StartDate).To(Equal("2024-06-10"))
			Expect(d.EndDate).To(Equal("2024-06-10"))
		})

		It("leaves a later end date alone", func() {
			d := trip.Details{StartDate: "2024-06-01", EndDate: "2024-06-20"}

			d, _ = d.With(trip.FieldStartDate, "2024-06-10")
			Expect(d.EndDate).To(Equal("2024-06-20"))
		})

		It("fills an empty end date from the start date", func() {
			d, _ := trip.Details{}.With(trip.FieldStartDate, "2024-06-10")
			Expect(d.EndDate).To(Equal("2024-06-10"))
		})

		It("does not clamp when the end date is edited directly", func() {
			d := trip.Details{StartDate: "2024-06-10", EndDate: "2024-06-10"}

			d, _ = d.With(trip.FieldEndDate, "2024-06-05")
			Expect(d.EndDate).To(Equal("2024-06-05"))
			Expect(d.EndBeforeStart()).To(BeTrue())
		})

		It("rejects unknown fields", func() {
			_, err := trip.Details{}.With(trip.Field("budget"), "100")
			Expect(err).To(MatchError(trip.ErrUnknownField))
		})
	})

	Describe("Validate", func() {
		valid := trip.Details{
			CurrentLocation: "Berlin",
			Destination:     "Lisbon",
			StartDate:       "2024-06-01",
			EndDate:         "2024-06-03",
		}

		It("accepts a complete request", func() {
			Expect(valid.Validate("2024-05-30")).To(Succeed())
		})

		It("accepts a trip starting today", func() {
			Expect(valid.Validate("2024-06-01")).To(Succeed())
		})

		It("reports missing fields", func() {
			d := valid
			d.Destination = " "
			Expect(d.Validate("")).To(MatchError(trip.ErrMissingField))
		})

		It("reports unparseable dates", func() {
			d := valid
			d.StartDate = "06/01/2024"
			Expect(d.Validate("")).To(MatchError(trip.ErrInvalidDate))
		})

		It("reports a start date in the past", func() {
			Expect(valid.Validate("2024-06-02")).To(MatchError(trip.ErrStartInPast))
		})

		It("reports an end date before the start date", func() {
			d := valid
			d.EndDate = "2024-05-31"
			Expect(d.Validate("2024-05-01")).To(MatchError(trip.ErrEndBeforeStart))
		})
	})

	It("formats today as a trip date", func() {
		now := time.Date(2024, time.June, 1, 23, 59, 0, 0, time.UTC)
		Expect(trip.Today(now)).To(Equal("2024-06-01"))
	})
})

var _ = Describe("BuildPrompt", func() {
	It("embeds the four values verbatim", func() {
		d := trip.Details{
			CurrentLocation: "São Paulo, BR",
			Destination:     "Kyoto (京都)",
			StartDate:       "2024-06-01",
			EndDate:         "2024-06-03",
		}

		prompt := trip.BuildPrompt(d)
		Expect(prompt).To(ContainSubstring("- Current Location: São Paulo, BR\n"))
		Expect(prompt).To(ContainSubstring("- Destination: Kyoto (京都)\n"))
		Expect(prompt).To(ContainSubstring("- Trip Duration: 2024-06-01 to 2024-06-03\n"))
		Expect(prompt).To(HavePrefix("Create a comprehensive trip plan:"))
	})

	It("is deterministic", func() {
		d := trip.Details{CurrentLocation: "a", Destination: "b", StartDate: "c", EndDate: "d"}
		Expect(trip.BuildPrompt(d)).To(Equal(trip.BuildPrompt(d)))
	})
})
