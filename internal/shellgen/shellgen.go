// Package shellgen emits the static shell-function text that lets the
// slotctl binary hand a target directory back to an interactive shell.
// The function is named identically to the tool: it shadows `slotctl` in
// the user's shell, runs the real binary (found via its absolute path so
// the function does not call itself), then consumes the nav file the
// binary may have written and cds into it.
package shellgen

import "fmt"

// Shell identifies one of the supported wrapper dialects.
type Shell string

const (
	Bash Shell = "bash"
	Zsh  Shell = "zsh"
	Fish Shell = "fish"
)

// Generate returns the wrapper function text for shell, or an error for
// an unrecognized one.
func Generate(shell Shell) (string, error) {
	switch shell {
	case Bash, Zsh:
		return posixWrapper, nil
	case Fish:
		return fishWrapper, nil
	default:
		return "", fmt.Errorf("shellgen: unsupported shell %q", shell)
	}
}

const posixWrapper = `slotctl() {
  local bin
  bin="$(unset -f slotctl; command -v slotctl)"
  if [ -z "$bin" ]; then
    echo "slotctl: binary not found on PATH" >&2
    return 1
  fi

  "$bin" "$@"
  local rc=$?

  local navfile="${TMPDIR:-/tmp}/slotctl-nav-$$"
  if [ -f "$navfile" ]; then
    local target
    target="$(cat "$navfile")"
    rm -f "$navfile"
    if [ -n "$target" ] && [ -d "$target" ]; then
      cd "$target" || return $?
      if [ -x "$target/.slotctl/hooks/post-checkout" ]; then
        "$target/.slotctl/hooks/post-checkout" "$target" "$(git -C "$target" branch --show-current)"
      fi
    fi
  fi

  return $rc
}
`

const fishWrapper = `function slotctl
    set -l bin (command -v slotctl)
    if test -z "$bin"
        echo "slotctl: binary not found on PATH" >&2
        return 1
    end

    $bin $argv
    set -l rc $status

    set -l navfile (test -n "$TMPDIR"; and echo $TMPDIR; or echo /tmp)"/slotctl-nav-"(echo %self)
    if test -f "$navfile"
        set -l target (cat "$navfile")
        rm -f "$navfile"
        if test -n "$target"; and test -d "$target"
            cd "$target"
            if test -x "$target/.slotctl/hooks/post-checkout"
                "$target/.slotctl/hooks/post-checkout" "$target" (git -C "$target" branch --show-current)
            end
        end
    end

    return $rc
end
`
