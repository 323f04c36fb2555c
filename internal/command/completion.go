// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/meta"
)

const bashCompletionScript = `# bash completion for fintrack
_fintrack()
{
    local cur prev cmd sub
    COMPREPLY=()
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "dashboard tx account transfer category completion --api-url --timeout --cache-window --no-cache --metrics-addr --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    sub=${COMP_WORDS[2]}
    local common="--color -c --filter -f --output -o --sort -s --titles -t"

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --period|-p)
            COMPREPLY=( $(compgen -W "WEEKLY MONTHLY YEARLY" -- "$cur") )
            return 0
            ;;
        --type)
            COMPREPLY=( $(compgen -W "INCOME EXPENSE BOTH" -- "$cur") )
            return 0
            ;;
        --division)
            COMPREPLY=( $(compgen -W "PERSONAL OFFICE" -- "$cur") )
            return 0
            ;;
    esac

    if [[ ${COMP_CWORD} -eq 2 ]]; then
        case "$cmd" in
            tx|account) COMPREPLY=( $(compgen -W "list get create update delete" -- "$cur") ); return 0 ;;
            transfer)   COMPREPLY=( $(compgen -W "list get create" -- "$cur") ); return 0 ;;
            category)   COMPREPLY=( $(compgen -W "list create init" -- "$cur") ); return 0 ;;
            completion) COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") ); return 0 ;;
        esac
    fi

    local opts="$common"
    case "$cmd $sub" in
        dashboard*)         opts="$common --period -p --date --watch -w" ;;
        "tx list")          opts="$common --type --division --category --period --start --end" ;;
        "tx get"|"tx delete"|"account get"|"account delete"|"transfer get")
                            opts="$common --id" ;;
        "tx create")        opts="$common --type --amount --category --division --description --account --date" ;;
        "tx update")        opts="$common --id --type --amount --category --division --description --account --date" ;;
        "account create")   opts="$common --name --type --balance" ;;
        "account update")   opts="$common --id --name --type --balance" ;;
        "transfer list")    opts="$common --start --end" ;;
        "transfer create")  opts="$common --from --to --amount --description --date" ;;
        "category list")    opts="$common --type" ;;
        "category create")  opts="$common --name --type --icon" ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _fintrack fintrack
`

const zshCompletionScript = `#compdef fintrack

_fintrack() {
  local -a cmds
  cmds=(
    'dashboard:income, expense and balance for a period'
    'tx:income and expense transactions'
    'account:accounts and balances'
    'transfer:money moved between accounts'
    'category:transaction categories'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'fintrack commands' cmds
    return
  fi

  case $words[2] in
    dashboard)
      _arguments -C \
        $common \
        '(-p --period)'{-p,--period}'[period]:period:(WEEKLY MONTHLY YEARLY)' \
        '--date[month, YYYY-MM]:month' \
        '(-w --watch)'{-w,--watch}'[refresh interval]:interval'
      ;;
    tx|account)
      _arguments -C '2:subcommand:(list get create update delete)' '*::options:->opts'
      ;;
    transfer)
      _arguments -C '2:subcommand:(list get create)' '*::options:->opts'
      ;;
    category)
      _arguments -C '2:subcommand:(list create init)' '*::options:->opts'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _fintrack fintrack
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := writer(cmd)

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: fintrack completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "fintrack completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
