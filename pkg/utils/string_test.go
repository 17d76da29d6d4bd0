package utils_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satchelworks/satchel/pkg/utils"
)

var _ = Describe("Truncate", func() {
	It("returns short strings unchanged", func() {
		Expect(utils.Truncate("short", 10)).To(Equal("short"))
	})

	It("returns strings at the limit unchanged", func() {
		Expect(utils.Truncate("exact", 5)).To(Equal("exact"))
	})

	It("truncates long strings with an ellipsis", func() {
		Expect(utils.Truncate("a longer string", 8)).To(Equal("a longer..."))
	})

	It("handles the empty string", func() {
		Expect(utils.Truncate("", 5)).To(Equal(""))
	})
})
