// Package timeline renders the index evolution video: a fixed scene list
// (cover, one map scene per month, optional analysis and recommendation
// text scenes, closing) drawn as 1920x1080 PNG frames and assembled into
// an H.264 MP4 by an external encoder through a concat list. The encoder
// binary is resolved at construction; rendering is interruptible at scene
// boundaries and never leaves a truncated output file behind.
package timeline
