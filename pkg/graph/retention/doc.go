// Package retention prunes stored graph revisions on a cron schedule,
// keeping the newest graph.retention.keep rows.
package retention
