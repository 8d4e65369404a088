// Package microbot drives a two-wheeled micro:bit robot ("micro:bot").
//
// Two drives are provided. The continuous drive runs continuous-rotation
// servos by signed speed. The timed drive writes calibrated servo pulses and
// covers distances and angles by driving for a computed time and stopping.
//
// # Installation
//
//	go install github.com/gwillem/microbot/cmd/microbot@latest
//
// # Usage
//
// Pick a backend, a drive and calibrate it:
//
//	microbot setup
//
// Run single commands:
//
//	microbot drive forward --hold 2s
//	microbot drive turn-right 90
//
// Or drive from the keyboard:
//
//	microbot pilot
//
// Every command accepts --sim to run against the simulator.
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/microbot: CLI with setup, drive, pilot and info commands
//   - pkg/hal: pins and the hardware capabilities the drives use
//   - pkg/robot: the continuous and timed drives, calibration and configuration
//   - pkg/sim: in-memory board that records hardware calls
//   - pkg/bridge: serial link to a micro:bit running the bridge program
//   - pkg/servobus: Feetech STS bus servos in wheel mode
//   - pkg/pilot: command queue and state feed for interactive driving
package microbot
