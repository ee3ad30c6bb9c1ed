package complaint

import (
	"strings"

	"github.com/frahmantamala/campus-complaints/internal"
	"github.com/frahmantamala/campus-complaints/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func fieldCodes(err *internal.AppError) []string {
	details, ok := err.Details.(internal.ValidationErrors)
	Expect(ok).To(BeTrue())
	var codes []string
	for _, e := range details.Errors {
		codes = append(codes, e.Field+":"+e.Code)
	}
	return codes
}

var _ = Describe("CreateComplaintDTO", func() {
	It("applies the shared title and description rules", func() {
		dto := CreateComplaintDTO{
			Title:       strings.Repeat("t", validation.MaxTitleLength+1),
			Description: "",
			Category:    CategoryInfrastructure,
		}

		err := dto.Validate()
		Expect(err).NotTo(BeNil())
		Expect(fieldCodes(err)).To(ConsistOf(
			"title:"+string(internal.ErrCodeInvalidTitle),
			"description:"+string(internal.ErrCodeValidationFailed),
		))
	})
})

var _ = Describe("UpdateComplaintDTO", func() {
	It("accepts an assignee that fits the column", func() {
		assignee := strings.Repeat("a", validation.MaxAssigneeLength)
		Expect(UpdateComplaintDTO{AssignedTo: &assignee}.Validate()).To(BeNil())
	})

	It("rejects an assignee longer than the column", func() {
		assignee := strings.Repeat("a", validation.MaxAssigneeLength+1)

		err := UpdateComplaintDTO{AssignedTo: &assignee}.Validate()
		Expect(err).NotTo(BeNil())
		Expect(err.StatusCode).To(Equal(400))
		Expect(fieldCodes(err)).To(ConsistOf("assigned_to:" + string(internal.ErrCodeInvalidAssignee)))
	})

	It("lets an assignee be cleared", func() {
		empty := ""
		Expect(UpdateComplaintDTO{AssignedTo: &empty}.Validate()).To(BeNil())
	})
})
