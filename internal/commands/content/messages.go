package contentcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const syncContentMessageType = "docsite.content.sync"

// ResultCallback receives the sync result produced by a content command. The callback is
// optional and is invoked synchronously from the handler when a result is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a content command execution.
type ResultEnvelope struct {
	Result   *interfaces.SyncResult
	Metadata map[string]any
}

// SyncContentCommand reconciles the Markdown files under Directory with the
// lesson index, mirroring markdown.Service Sync semantics.
type SyncContentCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load Markdown files from.
	Directory string `json:"directory"`
	// Prune removes indexed lessons whose source files no longer exist.
	Prune bool `json:"prune,omitempty"`
	// DryRun toggles preview mode to collect sync changes without persisting anything.
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (SyncContentCommand) Type() string { return syncContentMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncContentCommand) Validate() error {
	err := validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("docsite.content.sync.directory_required", "directory is required")
			}
			return nil
		})),
	)
	if err != nil {
		return err
	}
	return nil
}
