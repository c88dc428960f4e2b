// Package sweep composes override sets from several sources into the ordered list of jobs of a parameter sweep.
//
// Sources are combined by cartesian product. The first source is the outermost axis of the product and, when two
// sources set the same key, the value of the earlier source wins. The composed sequence may be deduplicated on the
// resolved key/value mapping of every job and is finally split into launch batches.
package sweep
