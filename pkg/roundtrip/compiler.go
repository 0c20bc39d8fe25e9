// SPDX-License-Identifier: Apache-2.0

// Package roundtrip is the verification harness for generated code:
// compiling generated C to a shared library, dynamically loading and
// binding its encode/decode ABI, and running the seeded property suite
// with function-coverage tracking.
package roundtrip

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// SharedLibrarySuffix returns the host platform's native dynamic library
// extension.
func SharedLibrarySuffix() string {
	switch runtime.GOOS {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// IsMSVC reports whether compiler refers to the MSVC cl.exe front end.
// Windows-style paths are recognised on any host, since the compiler string
// may come from a report or environment written on another platform.
func IsMSVC(compiler string) bool {
	if i := strings.LastIndexByte(compiler, '\\'); i >= 0 {
		compiler = compiler[i+1:]
	}
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(compiler), filepath.Ext(compiler)))
	return base == "cl"
}

// CompilerVersion runs the compiler's version-banner flag and returns the
// first line of output, for inclusion in a campaign report's toolchain
// block. A missing compiler is reported inline rather than as an error,
// so a report can still be written.
func CompilerVersion(compiler string) string {
	var cmd *exec.Cmd
	if IsMSVC(compiler) {
		cmd = exec.Command(compiler)
	} else {
		cmd = exec.Command(compiler, "--version")
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if _, lookErr := exec.LookPath(compiler); lookErr != nil {
			return fmt.Sprintf("%s: not found", compiler)
		}
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return fmt.Sprintf("%s: version unknown", compiler)
	}
	return strings.SplitN(text, "\n", 2)[0]
}

// CompileSharedLibrary builds sourcePath into a shared library at
// outputPath, using compiler's MSVC-vs-GCC/Clang dialect as appropriate.
// On Darwin, a GCC/Clang failure with
// "-shared -fPIC" retries once with "-dynamiclib" before giving up.
func CompileSharedLibrary(sourcePath, includeDir, outputPath, compiler string) error {
	if IsMSVC(compiler) {
		args := []string{
			"/LD", "/std:c11", "/W4", "/WX",
			sourcePath,
			"/I" + includeDir,
			"/Fe:" + outputPath,
		}
		if out, err := runCompiler(compiler, args); err != nil {
			return fmt.Errorf("compiling %s with MSVC: %w\n%s", filepath.Base(sourcePath), err, out)
		}
		return nil
	}

	common := []string{
		"-std=c11", "-Wall", "-Wextra", "-Werror",
		sourcePath,
		"-I" + includeDir,
		"-o", outputPath,
	}

	primaryArgs := append([]string{"-shared", "-fPIC"}, common...)
	primaryOut, primaryErr := runCompiler(compiler, primaryArgs)
	if primaryErr == nil {
		return nil
	}

	if runtime.GOOS == "darwin" {
		fallbackArgs := append([]string{"-dynamiclib"}, common...)
		fallbackOut, fallbackErr := runCompiler(compiler, fallbackArgs)
		if fallbackErr == nil {
			return nil
		}
		return fmt.Errorf(
			"compiling %s: primary(-shared -fPIC) failed: %v\n%s\nfallback(-dynamiclib) failed: %v\n%s",
			filepath.Base(sourcePath), primaryErr, primaryOut, fallbackErr, fallbackOut,
		)
	}

	return fmt.Errorf("compiling %s: %w\n%s", filepath.Base(sourcePath), primaryErr, primaryOut)
}

func runCompiler(compiler string, args []string) (string, error) {
	cmd := exec.Command(compiler, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}
