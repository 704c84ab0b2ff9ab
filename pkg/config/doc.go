/*
Package config manages configuration assembly and validation for globusrc.

	 flags          environment        config file        defaults
	   |                 |                 |                 |
	   +--------+--------+--------+--------+--------+--------+
	            |                 |                 |
	            v                 v                 v
	      +-----------+    +-----------+    +-----------+
	      |   Sync    |    |  Reshape  |    |   File    |
	      | (struct)  |    | (struct)  |    | (YAML/HCL)|
	      +-----------+    +-----------+    +-----------+

🎯 Purpose:
- Builds one immutable configuration struct per invocation
- Layers flag overrides over GLOBUS_* environment variables over an optional file
- Validates required fields and value choices before anything runs

🔄 Flow:
1. The command layer collects explicitly-passed flags into override values
2. SyncFromEnv / ReshapeFromEnv merge overrides, environment, file and defaults
3. Validate rejects missing endpoints, relative destination paths and bad choices
4. The finished struct is handed to the routine and never mutated again

📝 Design Philosophy:
Configuration is resolved exactly once, at process start. Routines receive a
plain struct; nothing downstream consults the environment, so a given struct
always produces the same behavior.
*/
package config
