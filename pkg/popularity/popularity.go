// Package popularity ranks registry packages by recent download volume.
//
// The ranking comes from the public download-statistics dataset in
// BigQuery. The query is fixed: the top 1000 packages by downloads
// through the pip installer over the trailing day. Only the ordered name
// list leaves this package; consumers never see download counts.
package popularity

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// topDownloadsQuery is the one query this package runs. The window is
// yesterday through today so a daily snapshot sees a full day of traffic
// no matter when it runs.
const topDownloadsQuery = "SELECT file.project, COUNT(*) AS num_downloads " +
	"FROM `bigquery-public-data.pypi.file_downloads` " +
	"WHERE details.installer.name = 'pip' " +
	"AND DATE(timestamp) BETWEEN DATE_SUB(CURRENT_DATE(), INTERVAL 1 DAY) AND CURRENT_DATE() " +
	"GROUP BY file.project " +
	"ORDER BY num_downloads DESC " +
	"LIMIT 1000;"

// Executor produces the ranked package-name list. The warehouse-backed
// implementation lives here; tests and callers inject their own.
type Executor interface {
	// TopPackages returns package names ordered by descending download
	// count.
	TopPackages(ctx context.Context) ([]string, error)

	// Close releases the underlying client.
	Close() error
}

// BigQueryExecutor runs the ranking query against the real warehouse.
type BigQueryExecutor struct {
	client *bigquery.Client
}

// NewExecutor builds a warehouse client for projectID, authenticating
// with whatever DetectCredentials finds in the environment.
func NewExecutor(ctx context.Context, projectID string) (*BigQueryExecutor, error) {
	creds, err := DetectCredentials()
	if err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if creds.Kind == CredentialServiceAccount {
		opts = append(opts, option.WithCredentialsFile(creds.KeyFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}
	return &BigQueryExecutor{client: client}, nil
}

// TopPackages runs the ranking query and extracts the name column.
func (e *BigQueryExecutor) TopPackages(ctx context.Context) ([]string, error) {
	it, err := e.client.Query(topDownloadsQuery).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("run popularity query: %w", err)
	}

	var names []string
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read popularity rows: %w", err)
		}
		name, err := projectColumn(row)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Close closes the warehouse client.
func (e *BigQueryExecutor) Close() error {
	return e.client.Close()
}

// projectColumn pulls the package name out of a result row. The name is
// the first column; the download count beside it is only there for the
// ordering.
func projectColumn(row []bigquery.Value) (string, error) {
	if len(row) == 0 {
		return "", errors.New("empty popularity result row")
	}
	name, ok := row[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected project column type %T", row[0])
	}
	return name, nil
}

var _ Executor = (*BigQueryExecutor)(nil)
