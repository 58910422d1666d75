package complexity

import "testing"

func TestAnalyzeSecurityKeyword(t *testing.T) {
	m := Analyze("add password reset flow", nil)
	if !m.SecuritySensitive {
		t.Fatalf("expected SecuritySensitive=true for prompt mentioning password")
	}
	if m.Score <= 0 {
		t.Fatalf("expected positive score for security-sensitive prompt, got %v", m.Score)
	}
}

func TestAnalyzeArchitectureKeyword(t *testing.T) {
	m := Analyze("refactor the database schema", nil)
	if !m.RequiresArchitecture {
		t.Fatalf("expected RequiresArchitecture=true for prompt mentioning schema/refactor")
	}
}

func TestAnalyzeNoKeywords(t *testing.T) {
	m := Analyze("fix a typo in the readme", nil)
	if m.SecuritySensitive || m.RequiresArchitecture {
		t.Fatalf("expected no keyword hits, got %+v", m)
	}
}

func TestAnalyzeScoreClamped(t *testing.T) {
	ctx := &Context{LinesChanged: 10000, FilesChanged: 50, FileCount: 50}
	m := Analyze("refactor auth architecture database security permission schema design", ctx)
	if m.Score > 1 {
		t.Fatalf("score must be clamped to <= 1, got %v", m.Score)
	}
	if m.Score != 1 {
		t.Fatalf("expected maximal score to clamp to exactly 1, got %v", m.Score)
	}
}

func TestAnalyzeScoreNeverNegative(t *testing.T) {
	m := Analyze("", nil)
	if m.Score < 0 {
		t.Fatalf("score must never be negative, got %v", m.Score)
	}
}

func TestEstimatePatchSizeSizingKeywords(t *testing.T) {
	base := Analyze("update the header text", nil)
	up := Analyze("add the header text", nil)
	down := Analyze("simple update the header text", nil)
	double := Analyze("refactor update the header text", nil)

	if up.EstimatedPatchSize <= base.EstimatedPatchSize {
		t.Errorf("'add' prompt should estimate larger than neutral prompt: %d vs %d", up.EstimatedPatchSize, base.EstimatedPatchSize)
	}
	if down.EstimatedPatchSize >= base.EstimatedPatchSize {
		t.Errorf("'simple' prompt should estimate smaller than neutral prompt: %d vs %d", down.EstimatedPatchSize, base.EstimatedPatchSize)
	}
	if double.EstimatedPatchSize <= up.EstimatedPatchSize {
		t.Errorf("'refactor' prompt should estimate larger than 'add' prompt: %d vs %d", double.EstimatedPatchSize, up.EstimatedPatchSize)
	}
}

func TestEstimatePatchSizeKeywordsCompound(t *testing.T) {
	base := Analyze("update the header text", nil)
	up := Analyze("add the header text", nil)
	overlap := Analyze("add and refactor the header text", nil)

	wantOverlap := float64(wordCount("add and refactor the header text")) * 2 * 1.5 * 2.0
	if float64(overlap.EstimatedPatchSize) != wantOverlap {
		t.Fatalf("expected overlapping 'add'+'refactor' keywords to compound to %v, got %d", wantOverlap, overlap.EstimatedPatchSize)
	}
	if overlap.EstimatedPatchSize <= up.EstimatedPatchSize {
		t.Errorf("prompt hitting both 'up' and 'double' categories should estimate larger than 'up' alone: %d vs %d", overlap.EstimatedPatchSize, up.EstimatedPatchSize)
	}
	if overlap.EstimatedPatchSize <= base.EstimatedPatchSize {
		t.Errorf("overlapping-keyword prompt should estimate larger than neutral prompt: %d vs %d", overlap.EstimatedPatchSize, base.EstimatedPatchSize)
	}
}

func TestEstimatePatchSizeCapped(t *testing.T) {
	longPrompt := ""
	for i := 0; i < 2000; i++ {
		longPrompt += "word "
	}
	m := Analyze(longPrompt, nil)
	if m.EstimatedPatchSize > maxEstimatedPatchSize {
		t.Fatalf("estimated patch size must be capped at %d, got %d", maxEstimatedPatchSize, m.EstimatedPatchSize)
	}
}

func TestEstimateFileCountMultipleFilesHint(t *testing.T) {
	m := Analyze("update several files across the project", nil)
	if m.FileCount < 3 {
		t.Fatalf("expected FileCount >= 3 for 'several files' hint, got %d", m.FileCount)
	}
}

func TestEstimateFileCountContextOverride(t *testing.T) {
	ctx := &Context{FilesChanged: 12}
	m := Analyze("tweak one line", ctx)
	if m.FileCount != 12 {
		t.Fatalf("expected ctx.FilesChanged to win over prompt-derived count, got %d", m.FileCount)
	}
}

func TestAnalyzeHasTests(t *testing.T) {
	m := Analyze("add a unit test for the parser", nil)
	if !m.HasTests {
		t.Fatalf("expected HasTests=true for prompt mentioning test")
	}
}
