package complaint

import (
	"github.com/frahmantamala/campus-complaints/internal/profile"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FilterComplaints", func() {
	studentID := "S-2042"
	list := []ComplaintWithProfile{
		{Complaint: Complaint{ID: "1", Title: "Broken AC", Description: "Lecture hall is hot", Category: CategoryInfrastructure, Status: StatusPending, Priority: PriorityHigh},
			Profiles: &profile.Summary{FullName: "Citra Lestari", StudentID: &studentID}},
		{Complaint: Complaint{ID: "2", Title: "Grades missing", Description: "Midterm grades not posted", Category: CategoryAcademic, Status: StatusResolved, Priority: PriorityMedium}},
		{Complaint: Complaint{ID: "3", Title: "Noise", Description: "Construction at night near the hostel", Category: CategoryHostel, Status: StatusPending, Priority: PriorityUrgent}},
	}

	ids := func(in []ComplaintWithProfile) []string {
		out := make([]string, 0, len(in))
		for _, c := range in {
			out = append(out, c.ID)
		}
		return out
	}

	DescribeTable("narrows the list",
		func(f Filter, expected []string) {
			Expect(ids(FilterComplaints(list, f))).To(Equal(expected))
		},
		Entry("no criteria", Filter{}, []string{"1", "2", "3"}),
		Entry("all is no criterion", Filter{Status: "all", Category: "all", Priority: "all"}, []string{"1", "2", "3"}),
		Entry("by status", Filter{Status: "pending"}, []string{"1", "3"}),
		Entry("by category", Filter{Category: "academic"}, []string{"2"}),
		Entry("by priority", Filter{Priority: "urgent"}, []string{"3"}),
		Entry("search is case-insensitive", Filter{Search: "GRADES"}, []string{"2"}),
		Entry("search covers descriptions", Filter{Search: "hostel"}, []string{"3"}),
		Entry("search covers submitter names", Filter{Search: "citra"}, []string{"1"}),
		Entry("search covers student ids", Filter{Search: "s-2042"}, []string{"1"}),
		Entry("criteria combine", Filter{Status: "pending", Search: "noise"}, []string{"3"}),
		Entry("nothing matches", Filter{Category: "library"}, []string{}),
	)

	It("searches plain complaints by title and description", func() {
		plain := []Complaint{list[0].Complaint, list[1].Complaint}
		Expect(FilterComplaints(plain, Filter{Search: "lecture"})).To(HaveLen(1))
		Expect(FilterComplaints(plain, Filter{Search: "citra"})).To(BeEmpty())
	})
})

var _ = Describe("Recent and Urgent", func() {
	It("caps the list without copying", func() {
		in := []int{1, 2, 3, 4}
		Expect(Recent(in, 3)).To(Equal([]int{1, 2, 3}))
		Expect(Recent(in, 10)).To(Equal(in))
		Expect(Recent(in, -1)).To(BeEmpty())
	})

	It("picks only open urgent complaints", func() {
		in := []Complaint{
			{ID: "a", Priority: PriorityUrgent, Status: StatusResolved},
			{ID: "b", Priority: PriorityUrgent, Status: StatusInProgress},
			{ID: "c", Priority: PriorityHigh, Status: StatusPending},
			{ID: "d", Priority: PriorityUrgent, Status: StatusPending},
		}
		out := Urgent(in, 1)
		Expect(out).To(HaveLen(1))
		Expect(out[0].ID).To(Equal("b"))
	})
})
