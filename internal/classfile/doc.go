// Package classfile reads the parts of a JVM class file needed to identify
// persistence-mapped classes.
//
// Only the constant pool, the class name, the super class and the
// class-level annotation tables (RuntimeVisibleAnnotations and
// RuntimeInvisibleAnnotations) are decoded. Fields and methods are skipped
// without interpretation. Names are returned in dotted binary form, e.g.
// "com.example.Order$Line".
package classfile
