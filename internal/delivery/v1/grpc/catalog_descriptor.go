package grpc

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	_ "google.golang.org/protobuf/types/known/emptypb"
	_ "google.golang.org/protobuf/types/known/structpb"
	_ "google.golang.org/protobuf/types/known/wrapperspb"
)

const catalogProtoFile = "catalog/v1/catalog.proto"

// CatalogFileDescriptor описывает api/catalog/v1/catalog.proto и зарегистрирован в protoregistry.GlobalFiles,
// чтобы reflection отдавал схему catalog.v1.ProductCatalog.
var CatalogFileDescriptor protoreflect.FileDescriptor

func init() {
	fd, err := buildCatalogFile(protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(err)
	}
	CatalogFileDescriptor = fd
}

type rpcSignature struct {
	name, input, output string
}

var catalogRPCs = []rpcSignature{
	{"GetProduct", ".google.protobuf.StringValue", ".google.protobuf.Struct"},
	{"ListActiveProducts", ".google.protobuf.Empty", ".google.protobuf.ListValue"},
	{"ListByCategory", ".google.protobuf.StringValue", ".google.protobuf.ListValue"},
	{"SearchProducts", ".google.protobuf.StringValue", ".google.protobuf.ListValue"},
	{"ListReviews", ".google.protobuf.StringValue", ".google.protobuf.ListValue"},
}

func buildCatalogFile(resolver protodesc.Resolver) (protoreflect.FileDescriptor, error) {
	methods := make([]*descriptorpb.MethodDescriptorProto, 0, len(catalogRPCs))
	for _, rpc := range catalogRPCs {
		methods = append(methods, &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(rpc.name),
			InputType:  proto.String(rpc.input),
			OutputType: proto.String(rpc.output),
		})
	}

	file := &descriptorpb.FileDescriptorProto{
		Name:    proto.String(catalogProtoFile),
		Package: proto.String("catalog.v1"),
		Syntax:  proto.String("proto3"),
		Dependency: []string{
			"google/protobuf/empty.proto",
			"google/protobuf/struct.proto",
			"google/protobuf/wrappers.proto",
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name:   proto.String("ProductCatalog"),
			Method: methods,
		}},
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/DRSN-tech/ecommerce-backend/internal/delivery/v1/grpc"),
		},
	}

	fd, err := protodesc.NewFile(file, resolver)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", catalogProtoFile, err)
	}

	return fd, nil
}
