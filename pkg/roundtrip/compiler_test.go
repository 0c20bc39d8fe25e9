// SPDX-License-Identifier: Apache-2.0
package roundtrip

import (
	"runtime"
	"testing"

	"github.com/specgo-dev/specgo/internal/assert"
)

func TestSharedLibrarySuffixMatchesHostGOOS(t *testing.T) {
	want := map[string]string{"darwin": ".dylib", "windows": ".dll"}[runtime.GOOS]
	if want == "" {
		want = ".so"
	}
	assert.Equal(t, want, SharedLibrarySuffix())
}

func TestIsMSVCRecognisesClExe(t *testing.T) {
	assert.True(t, IsMSVC("cl.exe"), "expected cl.exe to be recognised as MSVC")
	assert.True(t, IsMSVC("cl"), "expected bare cl to be recognised as MSVC")
	assert.True(t, IsMSVC(`C:\VC\bin\cl.exe`), "expected a full path to cl.exe to be recognised as MSVC")
}

func TestIsMSVCRejectsGCCAndClang(t *testing.T) {
	assert.True(t, !IsMSVC("gcc"), "gcc must not be treated as MSVC")
	assert.True(t, !IsMSVC("clang"), "clang must not be treated as MSVC")
	assert.True(t, !IsMSVC("/usr/bin/cc"), "cc must not be treated as MSVC")
}

func TestCompilerVersionReportsMissingCompiler(t *testing.T) {
	got := CompilerVersion("specgo-definitely-not-a-real-compiler")
	assert.Equal(t, "specgo-definitely-not-a-real-compiler: not found", got)
}
