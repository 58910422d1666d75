package acceptance_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const helloPy = "print('hello')\n"
const readmeMd = "Test Project\n"

const farewellDiff = `diff --git a/hello.py b/hello.py
index 0000000..1111111 100644
--- a/hello.py
+++ b/hello.py
@@ -1 +1,5 @@
 print('hello')
+
+def farewell():
+    print('goodbye')
+farewell()
`

var _ = Describe("create from archive and promote", func() {
	var dataRoot string

	BeforeEach(func() {
		dataRoot = GinkgoT().TempDir()
	})

	It("carries a new repo through create, patch, and promotion", func() {
		zipPath := writeZip(dataRoot, map[string]string{
			"hello.py":  helloPy,
			"README.md": readmeMd,
		})

		repoID := strings.TrimSpace(mustSologit(dataRoot, "repo", "init-archive", zipPath, "Test Project"))
		Expect(repoID).To(HavePrefix("repo_"))

		repoJSON := mustSologit(dataRoot, "repo", "get", repoID)
		var repo struct {
			TrunkBranch  string `json:"trunk_branch"`
			WorkpadCount int    `json:"workpad_count"`
		}
		mustUnmarshal(repoJSON, &repo)
		Expect(repo.TrunkBranch).To(Equal("main"))

		padID := strings.TrimSpace(mustSologit(dataRoot, "pad", "create", repoID, "Add farewell"))
		Expect(padID).To(HavePrefix("pad_"))

		patchPath := writePatchFile(dataRoot, "farewell.patch", farewellDiff)
		checkpoint := strings.TrimSpace(mustSologit(dataRoot, "patch", "apply", padID, patchPath))
		Expect(checkpoint).To(Equal("t1"))

		previewJSON := mustSologit(dataRoot, "pad", "merge-preview", padID)
		var preview struct {
			CanFastForward bool `json:"can_fast_forward"`
		}
		mustUnmarshal(previewJSON, &preview)
		Expect(preview.CanFastForward).To(BeTrue())

		hash := strings.TrimSpace(mustSologit(dataRoot, "pad", "promote", padID))
		Expect(hash).To(MatchRegexp(`^[0-9a-f]{40}$`))

		padJSON := mustSologit(dataRoot, "pad", "get", padID)
		var pad struct {
			Status string `json:"status"`
		}
		mustUnmarshal(padJSON, &pad)
		Expect(pad.Status).To(Equal("promoted"))

		repoJSON = mustSologit(dataRoot, "repo", "get", repoID)
		mustUnmarshal(repoJSON, &repo)
		Expect(repo.WorkpadCount).To(Equal(0))
	})
})

var _ = Describe("fast-forward rejection", func() {
	var dataRoot, repoID string

	BeforeEach(func() {
		dataRoot = GinkgoT().TempDir()
		zipPath := writeZip(dataRoot, map[string]string{
			"hello.py":  helloPy,
			"README.md": readmeMd,
		})
		repoID = strings.TrimSpace(mustSologit(dataRoot, "repo", "init-archive", zipPath, "Test Project"))
	})

	It("rejects a sibling workpad once another has promoted ahead of it", func() {
		padA := strings.TrimSpace(mustSologit(dataRoot, "pad", "create", repoID, "Pad A"))
		diffA := `diff --git a/README.md b/README.md
index 0000000..aaaaaaa 100644
--- a/README.md
+++ b/README.md
@@ -1 +1,2 @@
 Test Project
+Pad A change
`
		_ = strings.TrimSpace(mustSologit(dataRoot, "patch", "apply", padA, writePatchFile(dataRoot, "a.patch", diffA)))

		padB := strings.TrimSpace(mustSologit(dataRoot, "pad", "create", repoID, "Pad B"))
		diffB := `diff --git a/hello.py b/hello.py
index 0000000..bbbbbbb 100644
--- a/hello.py
+++ b/hello.py
@@ -1 +1,2 @@
 print('hello')
+print('Pad B change')
`
		_ = strings.TrimSpace(mustSologit(dataRoot, "patch", "apply", padB, writePatchFile(dataRoot, "b.patch", diffB)))

		_ = strings.TrimSpace(mustSologit(dataRoot, "pad", "promote", padB))

		previewJSON := mustSologit(dataRoot, "pad", "merge-preview", padA)
		var preview struct {
			CanFastForward bool `json:"can_fast_forward"`
		}
		mustUnmarshal(previewJSON, &preview)
		Expect(preview.CanFastForward).To(BeFalse(), "pad A should no longer be fast-forwardable once pad B has promoted ahead of it")

		out, err := sologit(dataRoot, "pad", "promote", padA)
		Expect(err).To(HaveOccurred())
		Expect(out).To(ContainSubstring("cannot promote"))
	})
})

var _ = Describe("workpad title length boundary", func() {
	var dataRoot, repoID string

	BeforeEach(func() {
		dataRoot = GinkgoT().TempDir()
		zipPath := writeZip(dataRoot, map[string]string{"hello.py": helloPy})
		repoID = strings.TrimSpace(mustSologit(dataRoot, "repo", "init-archive", zipPath, "Titles"))
	})

	It("accepts a 100-character title and rejects a 101-character title", func() {
		ok := strings.Repeat("a", 100)
		tooLong := strings.Repeat("a", 101)

		_, err := sologit(dataRoot, "pad", "create", repoID, ok)
		Expect(err).NotTo(HaveOccurred())

		out, err := sologit(dataRoot, "pad", "create", repoID, tooLong)
		Expect(err).To(HaveOccurred())
		Expect(out).To(ContainSubstring("invalid workpad title"))
	})
})

var _ = Describe("checkpoint numbering", func() {
	It("assigns t1, t2, t3 to three successive applyPatch calls on the same workpad", func() {
		dataRoot := GinkgoT().TempDir()
		zipPath := writeZip(dataRoot, map[string]string{"hello.py": helloPy})
		repoID := strings.TrimSpace(mustSologit(dataRoot, "repo", "init-archive", zipPath, "Checkpoints"))
		padID := strings.TrimSpace(mustSologit(dataRoot, "pad", "create", repoID, "Three checkpoints"))

		diffs := []string{
			"diff --git a/hello.py b/hello.py\nindex 0000000..1111111 100644\n--- a/hello.py\n+++ b/hello.py\n@@ -1 +1,2 @@\n print('hello')\n+print('one')\n",
			"diff --git a/hello.py b/hello.py\nindex 1111111..2222222 100644\n--- a/hello.py\n+++ b/hello.py\n@@ -1,2 +1,3 @@\n print('hello')\n print('one')\n+print('two')\n",
			"diff --git a/hello.py b/hello.py\nindex 2222222..3333333 100644\n--- a/hello.py\n+++ b/hello.py\n@@ -1,3 +1,4 @@\n print('hello')\n print('one')\n print('two')\n+print('three')\n",
		}
		var checkpoints []string
		for i, d := range diffs {
			path := writePatchFile(dataRoot, "step.patch", d)
			cp := strings.TrimSpace(mustSologit(dataRoot, "patch", "apply", padID, path))
			checkpoints = append(checkpoints, cp)
			_ = i
		}
		Expect(checkpoints).To(Equal([]string{"t1", "t2", "t3"}))

		padJSON := mustSologit(dataRoot, "pad", "get", padID)
		var pad struct {
			Checkpoints []string `json:"checkpoints"`
		}
		mustUnmarshal(padJSON, &pad)
		Expect(pad.Checkpoints).To(Equal([]string{"t1", "t2", "t3"}))
	})
})
