/*
Package reporter is the entry point for reporting errors and diagnostic events
to a remote collector.

A Client is created once with New from an endpoint and a token and then shared.
It offers three ways to report:

  - ReportCustom takes any level name, for integrations with their own tags.
  - ReportLevel takes one of the six logreport.Severity levels.
  - ReportNativeError takes an exception-like value from the host.

Every call performs at most one transport send on its own goroutine and returns
a *Result right away. Nothing is buffered, batched, deduplicated or retried, and
calls are not ordered relative to each other; callers that need ordering wait
on each Result before issuing the next report. Transport failures are returned
as is, so Result.Wait reports exactly the transport's error text.

	c, err := reporter.New(reporter.Config{
		Endpoint: "https://collector.example.com",
		Token:    token,
	})
	if err != nil {
		return err
	}

	if err := c.ReportLevel(logreport.Warning, "disk low", logreport.NoStackTrace).Wait(); err != nil {
		// the collector did not get it
	}
*/
package reporter
