// Package kms holds the mode-setting data model shared by the HDMI
// transmitter, the display controller and the orchestrator: display modes and
// their validation status, CEA-861 video identification codes, pixel and bus
// formats, rotation and blending enums, colorimetry, and the per-commit plane
// and framebuffer state.
//
// Numeric values follow the Linux DRM uapi (fourcc codes, modifiers, mode
// flags, rotation bits, media bus codes) so that values coming from a DRM based
// host can be used unchanged.
package kms
