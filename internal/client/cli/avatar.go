package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/agentdesk/internal/client/guard"
	"github.com/dmitrijs2005/agentdesk/internal/client/upload"
)

// Avatar replaces the profile picture with the image at path: the file is
// checked, a local preview is written, and it is uploaded once the user
// confirms. A failed upload may be retried. Leaving the command any other
// way cancels the upload and frees the preview.
func (a *App) Avatar(ctx context.Context, path string) error {
	if ok, err := a.allowed(ctx, guard.PathProfile); !ok || err != nil {
		return err
	}

	f, err := upload.OpenFile(path)
	if err != nil {
		return err
	}
	if err := a.avatar.Select(f); err != nil {
		return err
	}
	defer a.avatar.Cancel()

	p, err := a.avatar.Preview(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Preview: %s\n", p.Location)

	prompt := fmt.Sprintf("Upload %s (%d bytes) as your avatar?", f.Name, f.Size)
	for {
		ok, err := GetConfirmation(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Upload canceled.")
			return nil
		}

		url, err := a.avatar.Confirm(ctx)
		if err == nil {
			fmt.Fprintf(a.out, "Avatar updated: %s\n", url)
			return nil
		}
		fmt.Fprintf(a.out, "Upload failed: %s\n", err)
		prompt = "Try again?"
	}
}
