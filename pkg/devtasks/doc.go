// Package devtasks implements the maintenance tasks of the mimic3 Python project (install, check
// and package) as fixed pipelines of external commands.
// Commands are executed through mvdan.cc/sh so that argument lists stay typed and the same runner
// behaves identically on every platform.
package devtasks
