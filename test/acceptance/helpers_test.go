package acceptance_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"

	. "github.com/onsi/gomega"
)

// buildCmd constructs an exec.Command with CGO disabled, matching the
// way the binary is built for every acceptance run.
func buildCmd(name string, args ...string) *exec.Cmd {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	return cmd
}

// sologit runs the built binary against an isolated data root so
// parallel specs never share state.
func sologit(dataRoot string, args ...string) (string, error) {
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "SOLOGIT_DATA_DIR="+dataRoot)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// mustSologit runs the binary and fails the spec immediately on error.
func mustSologit(dataRoot string, args ...string) string {
	out, err := sologit(dataRoot, args...)
	ExpectWithOffset(1, err).NotTo(HaveOccurred(), "sologit %v: %s", args, out)
	return out
}

// writeZip materializes a zip archive containing the given name->content
// files and returns its path under dir.
func writeZip(dir string, files map[string]string) string {
	path := dir + "/seed.zip"
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		_, err = w.Write([]byte(content))
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
	}
	ExpectWithOffset(1, zw.Close()).To(Succeed())
	ExpectWithOffset(1, os.WriteFile(path, buf.Bytes(), 0o644)).To(Succeed())
	return path
}

// writePatchFile writes a unified diff to a temp file under dir and
// returns its path.
func writePatchFile(dir, name, content string) string {
	path := dir + "/" + name
	ExpectWithOffset(1, os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

func mustUnmarshal(data string, v any) {
	ExpectWithOffset(1, json.Unmarshal([]byte(data), v)).To(Succeed())
}
