package cli

import (
	"fmt"
)

// CompletionCmd generates shell completions
type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)"`
}

// Run executes the completion command
func (c *CompletionCmd) Run(globals *Globals) error {
	switch c.Shell {
	case "bash":
		return c.generateBash(globals)
	case "zsh":
		return c.generateZsh(globals)
	case "fish":
		return c.generateFish(globals)
	default:
		return fmt.Errorf("unsupported shell: %s", c.Shell)
	}
}

func (c *CompletionCmd) generateBash(globals *Globals) error {
	script := `# trunk bash completion script
# Add to ~/.bashrc or ~/.bash_profile:
#   eval "$(trunk completion bash)"

_trunk_completions() {
    local cur prev words cword
    _init_completion || return

    local commands="tail config completion"
    local global_flags="--format -q --quiet -v --verbose -V --version -h --help"
    local tail_flags="-f --follow -s --sieve -n --num-lines --poll-interval --max-line-bytes --reopen --stats"

    case "${prev}" in
        --format)
            COMPREPLY=($(compgen -W "text ndjson" -- "${cur}"))
            return
            ;;
        -s|--sieve|-n|--num-lines|--poll-interval|--max-line-bytes)
            return
            ;;
        config)
            COMPREPLY=($(compgen -W "show path generate" -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            return
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${tail_flags} ${global_flags}" -- "${cur}"))
        return
    fi

    if [[ ${cword} -eq 1 ]]; then
        COMPREPLY=($(compgen -W "${commands}" -- "${cur}"))
    fi
    _filedir
}

complete -F _trunk_completions trunk
`
	_, err := fmt.Fprint(globals.Stdout, script)
	return err
}

func (c *CompletionCmd) generateZsh(globals *Globals) error {
	script := `#compdef trunk
# trunk zsh completion script
# Add to ~/.zshrc:
#   eval "$(trunk completion zsh)"

_trunk() {
    local -a global_opts
    global_opts=(
        '--format[Output format]:format:(text ndjson)'
        '(-q --quiet)'{-q,--quiet}'[Suppress diagnostics and warnings]'
        '(-v --verbose)'{-v,--verbose}'[Show debug diagnostics]'
        '(-V --version)'{-V,--version}'[Show version information]'
    )

    case $words[2] in
        config)
            _arguments '2:action:(show path generate)' $global_opts
            ;;
        completion)
            _arguments '2:shell:(bash zsh fish)'
            ;;
        *)
            _arguments \
                '(-f --follow)'{-f,--follow}'[Keep printing appended lines]' \
                '(-s --sieve)'{-s,--sieve}'[Only print followed lines containing SIEVE]:sieve:' \
                '(-n --num-lines)'{-n,--num-lines}'[Number of lines to print first]:lines:' \
                '--poll-interval[Time between size checks]:duration:' \
                '--max-line-bytes[Unterminated line limit]:bytes:' \
                '--reopen[Reopen the file when it is replaced]' \
                '--stats[Print follow statistics on exit]' \
                $global_opts \
                '1:file:_files'
            ;;
    esac
}

compdef _trunk trunk
`
	_, err := fmt.Fprint(globals.Stdout, script)
	return err
}

func (c *CompletionCmd) generateFish(globals *Globals) error {
	script := `# trunk fish completion script
# Add to ~/.config/fish/completions/trunk.fish

# Commands
complete -c trunk -n "__fish_use_subcommand" -a "config" -d "Show or manage configuration"
complete -c trunk -n "__fish_use_subcommand" -a "completion" -d "Generate shell completions"

# Global flags
complete -c trunk -l format -d "Output format" -xa "text ndjson"
complete -c trunk -s q -l quiet -d "Suppress diagnostics and warnings"
complete -c trunk -s v -l verbose -d "Show debug diagnostics"
complete -c trunk -s V -l version -d "Show version information"

# Tail flags
complete -c trunk -s f -l follow -d "Keep printing appended lines"
complete -c trunk -s s -l sieve -d "Only print followed lines containing SIEVE" -x
complete -c trunk -s n -l num-lines -d "Number of lines to print first" -x
complete -c trunk -l poll-interval -d "Time between size checks" -x
complete -c trunk -l max-line-bytes -d "Unterminated line limit" -x
complete -c trunk -l reopen -d "Reopen the file when it is replaced"
complete -c trunk -l stats -d "Print follow statistics on exit"

# Config command
complete -c trunk -n "__fish_seen_subcommand_from config" -f -a "show path generate"

# Completion command
complete -c trunk -n "__fish_seen_subcommand_from completion" -f -a "bash zsh fish"
`
	_, err := fmt.Fprint(globals.Stdout, script)
	return err
}
