package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdcontent <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render Markdown and MDX content to HTML")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdcontent help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdcontent render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render .md, .markdown and .mdx files. Markdown becomes x.html;")
	fmt.Fprintln(w, "MDX becomes x.json (component descriptor) and x.html (static HTML).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Content file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each source)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --scope <path>        YAML file of values for MDX expressions")
	fmt.Fprintln(w, "      --watch               Re-render when content changes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Links:")
	fmt.Fprintln(w, "      --site-origin <url>   Site origin; links elsewhere are external")
	fmt.Fprintln(w, "      --rel <tokens>        rel tokens for external links")
	fmt.Fprintln(w, "                            (default: nofollow,noopener,noreferrer)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "HTML:")
	fmt.Fprintln(w, "      --autolink-class <s>  Class of heading anchor links (default: autolink)")
	fmt.Fprintln(w, "      --no-autolink         Disable heading anchor links")
	fmt.Fprintln(w, "      --style <name>        Chroma style for highlight.css (default: github)")
	fmt.Fprintln(w, "      --no-css              Do not write highlight.css")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Manifest:")
	fmt.Fprintln(w, "      --manifest            Write manifest.json")
	fmt.Fprintln(w, "      --no-manifest         Do not write manifest.json")
	fmt.Fprintln(w, "      --wpm <n>             Reading speed in words per minute (default: 250)")
	fmt.Fprintln(w, "      --date-format <s>     Display date: tokens or preset")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Posted] MMMM D")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdcontent version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdcontent help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
