package terminal

import "strings"

// Welcome — приветствие при запуске терминала.
var Welcome = []string{
	"# Write a comment using git commands",
	`# Example: git commit --author="Your Name" --password="secret" -m "Your comment"`,
	"# Type 'help' for more commands",
	"",
}

const helpText = `git-comment - Git-style terminal comment system

SYNOPSIS
    git log [--oneline] [--comments]
    git commit [-m <message>] [--author=<name>] [--password=<pass>] [--fixup=<hash>]
    git show <hash>
    git rebase -i <hash>
    git reset --hard <hash>
    git config user.name <name>
    git config --get user.name
    git reflog
    help

COMMANDS

  git log [--oneline]
      Show comment history in git log format

      Options:
        --oneline    Show compact one-line format
        --comments   Show only comments (default)

  git commit -m "<message>" --password="<pass>" [--author="<name>"]
      Create a new comment

      Options:
        -m <message>       Comment message
        --author=<name>    Author name (default: user.name or Guest)
        --password=<pass>  Password for edit/delete (required)

      Example:
        $ git commit --author="Ann" --password="1234" -m "Great post!"

      Interactive mode:
        $ git commit
        Author (optional, press Enter to skip): Ann
        Password (required for edit/delete): 1234
        Message: Great post!

  git commit --fixup=<hash>
      Reply to a comment

      Example:
        $ git commit --fixup=a3f8e2b1 --password="1234" -m "Thanks!"

  git show <hash>
      Show detailed information about a specific comment

  git rebase -i <hash>
      Edit an existing comment (requires password)

      Example:
        $ git rebase -i a3f8e2b1
        Password: 1234
        Message: Updated text

  git reset --hard <hash>
      Delete a comment (requires password). A 7-character hash prefix is accepted.

      Example:
        $ git reset --hard a3f8e2b
        Password: 1234
        Comment a3f8e2b1 deleted.

  git config user.name "<name>"
      Set default author name (stored in the local state file)

  git reflog
      Show comments you created from this terminal

  help, git --help
      Show this help message

PASSWORD & AUTHENTICATION

  Comments without password are read-only (cannot edit/delete).
  Comments with password can be edited or deleted with that password.

  Passwords are stored on the server as bcrypt hashes.
  Hashes of your comments and their passwords are remembered locally for convenience.`

func helpLines() []string {
	return strings.Split(helpText, "\n")
}
