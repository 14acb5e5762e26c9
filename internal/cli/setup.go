package cli

import (
	"context"
	"fmt"

	"github.com/dkalnina/notedrop/internal/cryptox"
	"github.com/dkalnina/notedrop/internal/secrets"
)

// prompts shown by Setup, keyed by secret name.
var secretPrompts = map[string]string{
	secrets.NotionToken:      "Notion integration token",
	secrets.NotionDatabaseID: "Notion database id",
	secrets.ImgurClientID:    "Imgur client id",
}

// Setup walks every credential the pipeline needs and prompts for the ones
// that are not resolvable yet. Already present values are left untouched;
// use Forget to re-enter one.
func (a *App) Setup(ctx context.Context) error {
	for _, name := range secrets.Names {
		if _, err := a.secrets.Acquire(ctx, name, a.promptSecret); err != nil {
			printlnFn(err.Error())
			return err
		}
	}
	printlnFn("All credentials are in place")
	return nil
}

// promptSecret collects one credential from the user. The Notion token is
// read without echo; the other values are visible identifiers.
func (a *App) promptSecret(ctx context.Context, name string) (string, error) {
	prompt, ok := secretPrompts[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", secrets.ErrUnknownSecret, name)
	}

	if name == secrets.NotionToken {
		value, err := GetSecret(prompt, a.out)
		if err != nil {
			return "", err
		}
		defer cryptox.Wipe(value)
		return string(value), nil
	}

	return GetSimpleText(a.reader, prompt, a.out)
}

// Forget removes a stored credential so the next Setup prompts for it again;
// "all" wipes the whole vault. Environment overrides are unaffected.
func (a *App) Forget(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Secret name ("+joinNames()+", or 'all')", a.out)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if name == "all" {
		if err := a.secrets.ForgetAll(ctx); err != nil {
			printlnFn(err.Error())
			return err
		}
		printlnFn("Forgot all stored secrets")
		return nil
	}

	if err := a.secrets.Forget(ctx, name); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Forgot", name)
	return nil
}

func joinNames() string {
	s := ""
	for i, name := range secrets.Names {
		if i > 0 {
			s += ", "
		}
		s += name
	}
	return s
}
