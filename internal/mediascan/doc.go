// Package mediascan discovers media files for a batch. It filters directory
// entries by supported extension and size limit, classifying each survivor as
// an image or video asset and reporting every skipped file with a reason.
package mediascan
