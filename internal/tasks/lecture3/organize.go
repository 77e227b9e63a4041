package lecture3

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/storage"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
	"github.com/maxkimambo/manage/internal/utils"
)

func organizeCommand(env *task.Env) *cobra.Command {
	var bucket string
	cmd := s3cmd.Leaf("organize-by-extension", "Move root objects into folders named by extension", func(cmd *cobra.Command, client *storage.Client) error {
		report, err := client.OrganizeByExtension(cmd.Context(), bucket)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, organizeSummary(bucket, report))
		switch {
		case report.Errors > 0:
			fmt.Fprintln(out, utils.Warning("Organize finished with errors",
				fmt.Sprintf("%d object(s) could not be moved; see the log for details.", report.Errors)))
		case report.Moved == 0:
			fmt.Fprintln(out, utils.Info("Nothing to organize",
				"No root-level objects with an extension were found."))
		default:
			fmt.Fprintln(out, utils.Success("Organize complete",
				fmt.Sprintf("%d object(s) moved into extension folders.", report.Moved)))
		}
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket to organize.")
	return cmd
}

func organizeSummary(bucket string, r *storage.OrganizeReport) string {
	rb := utils.NewReportBuilder().
		Header(fmt.Sprintf("Organize summary for bucket '%s'", bucket)).
		AddKeyValue("Scanned", r.Scanned).
		AddKeyValue("Moved", r.Moved).
		AddKeyValue("Skipped", r.Skipped).
		AddKeyValue("Errors", r.Errors).
		AddSeparator()
	if len(r.PerExtension) > 0 {
		rb.Section("Moved per extension").AddCounts(r.PerExtension, 1)
	}
	return rb.Build()
}
