package acceptance_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("patch validate-syntax boundary behaviors", func() {
	var dataRoot string

	BeforeEach(func() {
		dataRoot = GinkgoT().TempDir()
	})

	It("rejects an empty patch", func() {
		path := writePatchFile(dataRoot, "empty.patch", "   \n  \n")
		out := mustSologit(dataRoot, "patch", "validate-syntax", path)
		var result struct {
			Valid  bool     `json:"valid"`
			Errors []string `json:"errors"`
		}
		mustUnmarshal(out, &result)
		Expect(result.Valid).To(BeFalse())
		Expect(result.Errors).To(ContainElement("Patch is empty"))
	})

	It("accepts a well-formed diff with no warnings", func() {
		path := writePatchFile(dataRoot, "good.patch", farewellDiff)
		out := mustSologit(dataRoot, "patch", "validate-syntax", path)
		var result struct {
			Valid    bool     `json:"valid"`
			Warnings []string `json:"warnings"`
		}
		mustUnmarshal(out, &result)
		Expect(result.Valid).To(BeTrue())
		Expect(result.Warnings).To(BeEmpty())
	})
})

var _ = Describe("patch stats idempotence", func() {
	It("computes identical stats before and after a split+combine round trip", func() {
		dataRoot := GinkgoT().TempDir()
		combinedDiff := farewellDiff + "diff --git a/README.md b/README.md\nindex 0000000..aaaaaaa 100644\n--- a/README.md\n+++ b/README.md\n@@ -1 +1,2 @@\n Test Project\n+more\n"

		original := writePatchFile(dataRoot, "combined.patch", combinedDiff)
		originalOut := mustSologit(dataRoot, "patch", "stats", original)

		splitOut := mustSologit(dataRoot, "patch", "split", original)
		var parts map[string]string
		mustUnmarshal(splitOut, &parts)
		Expect(parts).To(HaveLen(2))

		part1 := writePatchFile(dataRoot, "part1.patch", parts["hello.py"])
		part2 := writePatchFile(dataRoot, "part2.patch", parts["README.md"])
		recombinedOut := strings.TrimRight(mustSologit(dataRoot, "patch", "combine", part1, part2), "\n")
		recombined := writePatchFile(dataRoot, "recombined.patch", recombinedOut)
		recombinedStatsOut := mustSologit(dataRoot, "patch", "stats", recombined)

		var originalStats, recombinedStats struct {
			TotalChanges int `json:"total_changes"`
		}
		mustUnmarshal(originalOut, &originalStats)
		mustUnmarshal(recombinedStatsOut, &recombinedStats)
		Expect(recombinedStats.TotalChanges).To(Equal(originalStats.TotalChanges))
	})
})

var _ = Describe("complexity routing", func() {
	It("flags a JWT/password prompt as security-sensitive regardless of size", func() {
		dataRoot := GinkgoT().TempDir()
		out := mustSologit(dataRoot, "ai", "complexity", "implement JWT authentication with secure password hashing")
		var m struct {
			SecuritySensitive bool    `json:"SecuritySensitive"`
			Score             float64 `json:"Score"`
		}
		mustUnmarshal(out, &m)
		Expect(m.SecuritySensitive).To(BeTrue())
		Expect(m.Score).To(BeNumerically(">", 0))
	})

	It("clamps the score into [0,1] for an empty prompt", func() {
		dataRoot := GinkgoT().TempDir()
		out := mustSologit(dataRoot, "ai", "complexity", "")
		var m struct {
			Score float64 `json:"Score"`
		}
		mustUnmarshal(out, &m)
		Expect(m.Score).To(BeNumerically(">=", 0))
		Expect(m.Score).To(BeNumerically("<=", 1))
	})
})
