package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/rptkit/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.With(slog.String("template", "invoice")).
		Info("section added", slog.String("kind", "Detail"))
	// Output:
	// level=INFO msg="section added" template=invoice kind=Detail
}
