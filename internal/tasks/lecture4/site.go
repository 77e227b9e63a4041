package lecture4

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/logger"
	"github.com/maxkimambo/manage/internal/storage"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
	"github.com/maxkimambo/manage/internal/utils"
)

var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Welcome!</title>
    <style>
        body { font-family: sans-serif; text-align: center; padding-top: 50px; }
    </style>
</head>
<body>
    <h1>Hello, {{.FirstName}} {{.LastName}}!</h1>
    <p>This page is hosted on Amazon S3.</p>
</body>
</html>
`))

// RenderIndexPage renders the greeting page with both names HTML-escaped.
func RenderIndexPage(firstName, lastName string) ([]byte, error) {
	var buf bytes.Buffer
	err := indexPage.Execute(&buf, struct{ FirstName, LastName string }{firstName, lastName})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hostStaticSiteCommand(env *task.Env) *cobra.Command {
	var bucket, firstName, lastName string
	cmd := s3cmd.Leaf("host-static-site", "Upload a greeting page and enable website hosting", func(cmd *cobra.Command, client *storage.Client) error {
		page, err := RenderIndexPage(firstName, lastName)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := client.UploadBytes(ctx, bucket, storage.IndexDocument, page, "text/html"); err != nil {
			return err
		}
		logger.User.Uploadf("Uploaded %s to bucket '%s'", storage.IndexDocument, bucket)

		url, err := client.PublishWebsite(ctx, bucket)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), utils.NewBox(utils.SuccessMessage, "Static Website Hosting Setup").
			AddLine("Successfully configured static website hosting.").
			AddKeyValue("Bucket", bucket).
			AddKeyValue("Content", fmt.Sprintf("index.html with name '%s %s'", firstName, lastName)).
			AddKeyValue("Policy", "Public Read applied").
			AddKeyValue("Website URL", url).
			AddLine("DNS propagation may take a few moments.").
			Render())
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "Name of the S3 bucket to configure for hosting.")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name to display on the index page")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name to display on the index page")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}
