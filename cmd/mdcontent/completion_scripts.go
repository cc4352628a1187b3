package main

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func writeBash(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# bash completion for mdcontent\n\n")
	b.WriteString("_mdcontent_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=($(compgen -W %s -- \"${cur}\"))\n", shellQuote(strings.Join(commandNames(cmds), " ")))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && c.FilePattern == "" {
			continue
		}
		fmt.Fprintf(b, "    %s)\n", c.Name)
		if len(c.Flags) > 0 {
			writeBashFlagValues(b, c.Flags)
			b.WriteString("        if [[ \"${cur}\" == -* ]]; then\n")
			fmt.Fprintf(b, "            COMPREPLY=($(compgen -W %s -- \"${cur}\"))\n", shellQuote(strings.Join(flagWords(c.Flags), " ")))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case c.FilePattern != "":
			fmt.Fprintf(b, "        COMPREPLY=($(compgen -f -X %s -- \"${cur}\") $(compgen -d -- \"${cur}\"))\n", bashGlobFilter(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(b, "        COMPREPLY=($(compgen -W %s -- \"${cur}\"))\n", shellQuote(strings.Join(c.Args, " ")))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _mdcontent_completions mdcontent\n")
}

// writeBashFlagValues completes the word following a value flag.
func writeBashFlagValues(b *strings.Builder, flags []flagDef) {
	var plain []string
	b.WriteString("        case \"${prev}\" in\n")
	for _, f := range flags {
		if !f.takesValue() {
			continue
		}
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern = "-" + f.Short + "|" + pattern
		}
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(b, "        %s)\n            COMPREPLY=($(compgen -W %s -- \"${cur}\"))\n            return\n            ;;\n",
				pattern, shellQuote(strings.Join(f.Values, " ")))
		case flagFile:
			fmt.Fprintf(b, "        %s)\n            COMPREPLY=($(compgen -f -X %s -- \"${cur}\") $(compgen -d -- \"${cur}\"))\n            return\n            ;;\n",
				pattern, bashGlobFilter(f.FileGlob))
		case flagDir:
			fmt.Fprintf(b, "        %s)\n            COMPREPLY=($(compgen -d -- \"${cur}\"))\n            return\n            ;;\n", pattern)
		default:
			plain = append(plain, pattern)
		}
	}
	if len(plain) > 0 {
		fmt.Fprintf(b, "        %s)\n            return\n            ;;\n", strings.Join(plain, "|"))
	}
	b.WriteString("        esac\n")
}

// bashGlobFilter builds the compgen -X pattern excluding other extensions.
func bashGlobFilter(glob string) string {
	return shellQuote("!*.@(" + strings.Join(globExtensions(glob), "|") + ")")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func writeZsh(b *strings.Builder, cmds []commandDef) {
	b.WriteString("#compdef mdcontent\n\n")
	b.WriteString("_mdcontent() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "        %s\n", shellQuote(c.Name+":"+c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && c.FilePattern == "" {
			continue
		}
		fmt.Fprintf(b, "    %s)\n", c.Name)
		if len(c.Args) > 0 && len(c.Flags) == 0 {
			fmt.Fprintf(b, "        _values '%s' %s\n        ;;\n", c.Name, strings.Join(c.Args, " "))
			continue
		}
		b.WriteString("        _arguments -s")
		for _, f := range c.Flags {
			fmt.Fprintf(b, " \\\n            %s", zshFlagSpec(f))
		}
		if c.FilePattern != "" {
			fmt.Fprintf(b, " \\\n            '*:file:_files -g \"*.(%s)\"'", strings.Join(globExtensions(c.FilePattern), "|"))
		}
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_mdcontent \"$@\"\n")
}

// zshFlagSpec formats one _arguments spec, grouping short and long forms.
func zshFlagSpec(f flagDef) string {
	desc := strings.NewReplacer("[", `\[`, "]", `\]`, ":", `\:`, "'", `'\''`).Replace(f.Desc)

	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(`:file:_files -g "*.(%s)"`, strings.Join(globExtensions(f.FileGlob), "|"))
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":value: "
	}

	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func writeFish(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# fish completion for mdcontent\n\n")
	b.WriteString("function __fish_mdcontent_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_mdcontent_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test \"$cmd[2]\" = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c mdcontent -f\n")

	for _, c := range cmds {
		fmt.Fprintf(b, "complete -c mdcontent -n __fish_mdcontent_needs_command -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range cmds {
		cond := fishQuote("__fish_mdcontent_using_command " + c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(b, "complete -c mdcontent -n %s", cond)
			if f.Short != "" {
				fmt.Fprintf(b, " -s %s", f.Short)
			}
			fmt.Fprintf(b, " -l %s -d %s", f.Long, fishQuote(f.Desc))
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(b, " -x -a %s", fishQuote(strings.Join(f.Values, " ")))
			case flagFile:
				fmt.Fprintf(b, " -r -a %s", fishQuote("(__fish_complete_suffix ."+strings.Join(globExtensions(f.FileGlob), " .")+")"))
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			default:
				b.WriteString(" -x")
			}
			b.WriteByte('\n')
		}
		switch {
		case c.FilePattern != "":
			fmt.Fprintf(b, "complete -c mdcontent -n %s -a %s\n", cond,
				fishQuote("(__fish_complete_suffix ."+strings.Join(globExtensions(c.FilePattern), " .")+")"))
		case len(c.Args) > 0:
			fmt.Fprintf(b, "complete -c mdcontent -n %s -a %s\n", cond, fishQuote(strings.Join(c.Args, " ")))
		}
	}
}

func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func writePowerShell(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# PowerShell completion for mdcontent\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName mdcontent -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $words = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "        %s = %s\n", psQuote(c.Name), psQuote(c.Desc))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		if len(c.Flags) > 0 {
			fmt.Fprintf(b, "        %s = @(%s)\n", psQuote(c.Name), psList(flagWords(c.Flags)))
		}
	}
	b.WriteString("    }\n\n")

	// Values are keyed by the word preceding the one being completed.
	b.WriteString("    $values = @{\n")
	for _, c := range cmds {
		if len(c.Args) > 0 {
			fmt.Fprintf(b, "        %s = @(%s)\n", psQuote(c.Name), psList(c.Args))
		}
		for _, f := range c.Flags {
			if f.Type != flagEnum {
				continue
			}
			fmt.Fprintf(b, "        %s = @(%s)\n", psQuote("--"+f.Long), psList(f.Values))
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString(`    if ($words.Count -eq 1 -or ($words.Count -eq 2 -and $wordToComplete -ne '')) {
        $commands.GetEnumerator() | Where-Object { $_.Key -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)
        }
        return
    }

    $command = $words[1]
    $previous = if ($wordToComplete -eq '') { $words[-1] } else { $words[-2] }

    if ($values.ContainsKey($previous)) {
        $values[$previous] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    if ($flags.ContainsKey($command) -and $wordToComplete -like '-*') {
        $flags[$command] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)
        }
    }
}
`)
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func psList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = psQuote(s)
	}
	return strings.Join(quoted, ", ")
}
