package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/repub"
	"github.com/fwojciec/repub/ingest"
)

// Run executes the import command. The document is copied into the site's
// uploads directory so the generated pages can link to it for download.
func (c *ImportCmd) Run(deps *Dependencies) error {
	dst := filepath.Join(deps.Pipeline.UploadDir, filepath.Base(c.Path))
	copied, err := copyFile(c.Path, dst)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	article, err := deps.Pipeline.IngestPDF(deps.Ctx, dst, ingest.Options{
		Title: c.Title,
		Tags:  c.Tags,
	})
	if err != nil {
		if copied {
			_ = os.Remove(dst)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	if err := rebuildSite(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %s  %s\n", article.ID, article.Title)
	return nil
}

// copyFile copies src to dst and reports whether a copy was made. Importing
// a file already inside the uploads directory is a no-op.
func copyFile(src, dst string) (bool, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return false, err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return false, err
	}
	if absSrc == absDst {
		return false, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return false, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return false, err
	}
	return true, nil
}
