package main

import (
	"fmt"
	"io"
)

func completionMain(args []string, stdout, stderr io.Writer) int {
	shell := "bash"
	if len(args) > 0 && args[0] != "" {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(stdout, bashCompletion)
	case "zsh":
		fmt.Fprint(stdout, zshCompletion)
	default:
		fmt.Fprintf(stderr, "toolrun: unsupported shell: %s (use bash or zsh)\n", shell)
		return exitUsage
	}
	return 0
}

const bashCompletion = `
_toolrun_completions()
{
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "run nunit args which history completion init -c --log-file --log-level" -- "$cur") )
        return 0
    fi

    local common="--config --tool-path --search-path --env --cd --timeout --response-file --response-prefix --response-dir --capture-bytes --pty --tui --no-history --quiet"
    case "${COMP_WORDS[1]}" in
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            ;;
        run)
            COMPREPLY=( $(compgen -W "$common --tool --flag --switch" -- "$cur") )
            ;;
        nunit)
            COMPREPLY=( $(compgen -W "$common --assembly --result --x86 --framework --agents --where" -- "$cur") )
            ;;
        args)
            COMPREPLY=( $(compgen -W "run nunit --copy $common --tool --flag --switch" -- "$cur") )
            ;;
        which)
            COMPREPLY=( $(compgen -W "--config --tool-path --search-path" -- "$cur") )
            ;;
        history)
            COMPREPLY=( $(compgen -W "--config -n --json" -- "$cur") )
            ;;
        init)
            COMPREPLY=( $(compgen -W "--config --force" -- "$cur") )
            ;;
    esac
}
complete -F _toolrun_completions toolrun
`

const zshCompletion = `
#compdef toolrun
_toolrun() {
    local -a subcmds common
    subcmds=('run:invoke a configured tool' 'nunit:run nunit3-console' 'args:preview the command line' 'which:locate an executable' 'history:list recent invocations' 'completion:print shell completions' 'init:write a starter toolrun.toml')
    common=(
        '--config[Path to config file]'
        '--tool-path[Directory containing the executable]'
        '--search-path[Directory searched before PATH]'
        '--env[Environment override KEY=VALUE]'
        '--cd[Working directory for the tool]'
        '--timeout[Kill the tool after this long]'
        '--response-file[Pass arguments through a response file]'
        '--response-prefix[Response file indirection prefix]'
        '--response-dir[Directory for the response file]'
        '--capture-bytes[Bytes of output kept for the summary]'
        '--pty[Run attached to a pseudo-terminal]'
        '--tui[Show a live terminal view]'
        '--no-history[Do not record this invocation]'
        '--quiet[Do not relay tool output]'
    )
    if (( CURRENT == 2 )); then
        _describe 'command' subcmds
        return
    fi
    case "$words[2]" in
        completion)
            _values 'shell' bash zsh
            ;;
        run|args)
            _arguments $common \
                '--tool[Executable name or path]' \
                '--flag[Flag emitted verbatim]' \
                '--switch[Switch name=value]' \
                '--copy[Copy the command line]'
            ;;
        nunit)
            _arguments $common \
                '--assembly[Test assembly]' \
                '--result[Result spec]' \
                '--x86[Run tests in a 32-bit process]' \
                '--framework[Target framework]' \
                '--agents[Maximum number of agents]' \
                '--where[Test selection expression]'
            ;;
        which)
            _arguments '--config[Path to config file]' '--tool-path[Directory containing the executable]' '--search-path[Directory searched before PATH]'
            ;;
        history)
            _arguments '--config[Path to config file]' '-n[Number of entries]' '--json[Print JSON lines]'
            ;;
        init)
            _arguments '--config[Path of the config file to write]' '--force[Overwrite an existing file]'
            ;;
    esac
}
_toolrun "$@"
`
