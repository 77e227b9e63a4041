package lecture5

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/quotes"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
	"github.com/maxkimambo/manage/internal/utils"
)

// rnd picks among an author's quotes. Nil uses the global source.
var rnd *rand.Rand

func inspireCommand(env *task.Env) *cobra.Command {
	var (
		author, bucket string
		save           bool
	)
	cmd := &cobra.Command{
		Use:   "inspire",
		Short: "Get an inspirational quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if save && bucket == "" {
				return taskerrors.NewValidationFailedError("--bucket-name", "", "required with --save")
			}
			if env == nil || env.Quotes == nil {
				return taskerrors.NewConfigurationError(taskerrors.CodeCredentials,
					"quotes client is not configured", "Initialize quotes client")
			}
			qc, err := env.Quotes()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			var quote *quotes.Quote
			if author == "" {
				if quote, err = qc.Random(ctx); err != nil {
					return err
				}
			} else {
				found, err := qc.ByAuthor(ctx, author)
				if err != nil {
					return err
				}
				if quote = quotes.Pick(found, rnd); quote == nil {
					fmt.Fprintf(out, "No quotes found for author: '%s'\n", author)
					return nil
				}
			}

			fmt.Fprintf(out, "\"%s\"\n", quote.Content)
			fmt.Fprintf(out, "- %s\n", quote.Author)
			if !save {
				return nil
			}

			client, err := s3cmd.Client(cmd, env)
			if err != nil {
				return err
			}
			tag := quote.Author
			if tag == "" {
				tag = "random"
			}
			key := utils.TimestampedName("quote", tag, "json", client.Now())
			body, err := json.MarshalIndent(quote, "", "  ")
			if err != nil {
				return err
			}
			if err := client.UploadBytes(ctx, bucket, key, body, "application/json"); err != nil {
				return err
			}
			fmt.Fprintf(out, "Quote saved to s3://%s/%s\n", bucket, key)
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Filter quotes by author name")
	cmd.Flags().StringVar(&bucket, "bucket-name", "", "S3 bucket name for saving quotes (required with --save)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the quote to an S3 bucket (requires --bucket-name)")
	return cmd
}
