/*
Package domain contains the core domain models of the RobotStudio engine.

It defines the instruction blocks a program is made of, the simulated robot
state the engine drives, and the events emitted while a program runs. This
package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Block: A single parameterized program step authored by the user.
  - RobotState: The live snapshot of the simulated robot (channels, sensors, executing flag).
  - Frame: A published update (state plus newly appended log lines) for observers.
  - LifecycleHooks: Callbacks fired by the engine for observability.
*/
package domain
