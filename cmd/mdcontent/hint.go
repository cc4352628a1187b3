package main

import (
	"errors"
	"os"

	"github.com/alecthomas/chroma/v2/styles"

	mdcontent "github.com/alnah/go-mdcontent"
	"github.com/alnah/go-mdcontent/internal/config"
	"github.com/alnah/go-mdcontent/internal/fileutil"
	"github.com/alnah/go-mdcontent/internal/hints"
)

// hintFor returns the actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdcontent.ErrUnresolvedReference):
		return hints.ForUnresolvedReference()
	case errors.Is(err, mdcontent.ErrInvalidExpression):
		return hints.ForInvalidExpression()
	case errors.Is(err, mdcontent.ErrInvalidComponent):
		return hints.ForInvalidComponent()
	case errors.Is(err, mdcontent.ErrESM):
		return hints.ForESM()
	case errors.Is(err, mdcontent.ErrFrontmatter):
		return hints.ForFrontmatter()
	case errors.Is(err, mdcontent.ErrInvalidSiteOrigin):
		return hints.ForSiteOrigin()
	case errors.Is(err, ErrStyleNotFound):
		return hints.ForStyleNotFound(styles.Names())
	case errors.Is(err, ErrWatch):
		return hints.ForWatch()
	case errors.Is(err, ErrWriteOutput) && errors.Is(err, os.ErrPermission):
		return hints.ForOutputDirectory()
	}
	return ""
}

// configHint returns the hint for a config load failure of nameOrPath.
func configHint(err error, nameOrPath string) string {
	if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(nameOrPath) {
		return hints.ForConfigNotFound(config.SearchPaths(nameOrPath))
	}
	return ""
}
