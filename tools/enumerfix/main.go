// Command enumerfix rewrites an enumer-generated file in place so its parse
// errors come from cockroachdb/errors.
package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	minArgs         = 2
	filePermissions = 0o644
)

// ErrUsage indicates incorrect usage of the tool.
var ErrUsage = errors.New("usage: enumerfix <file>")

const errorsImport = `"github.com/cockroachdb/errors"`

var (
	importBlock = regexp.MustCompile(`import \(\n([\s\S]*?)\n\)`)
	fmtUses     = []string{"fmt.Sprintf", "fmt.Stringer", "fmt.Fprintf", "fmt.Printf"}
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the enumerfix logic with the given arguments.
func run(args []string) error {
	if len(args) < minArgs {
		return ErrUsage
	}

	filename := args[1]

	//nolint:gosec // G304: File path from CLI argument is expected
	content, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "reading file")
	}

	fixed := fixEnumerFile(content)

	if err := os.WriteFile(filename, fixed, filePermissions); err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

func fixEnumerFile(content []byte) []byte {
	result := strings.ReplaceAll(string(content), "fmt.Errorf", "errors.Newf")

	for _, use := range fmtUses {
		if strings.Contains(result, use) {
			return []byte(addErrorsImport(result))
		}
	}

	return []byte(replaceImport(result, `"fmt"`, errorsImport))
}

func addErrorsImport(content string) string {
	match := importBlock.FindStringSubmatch(content)
	if match == nil || strings.Contains(match[1], errorsImport) {
		return content
	}

	return importBlock.ReplaceAllLiteralString(content, "import (\n"+match[1]+"\n\t"+errorsImport+"\n)")
}

func replaceImport(content, oldImport, newImport string) string {
	singleImportPattern := regexp.MustCompile(`import ` + regexp.QuoteMeta(oldImport))
	if singleImportPattern.MatchString(content) {
		return singleImportPattern.ReplaceAllString(content, "import "+newImport)
	}

	return strings.Replace(content, "\t"+oldImport, "\t"+newImport, 1)
}
